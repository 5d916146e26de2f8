package domain

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// DonationKind enumerates the supported donation types.
type DonationKind string

const (
	DonationKindClothes DonationKind = "clothes"
	DonationKindMoney   DonationKind = "money"
	DonationKindOther   DonationKind = "other"
)

// ParseDonationKind normalizes free-form input into a DonationKind.
func ParseDonationKind(raw string) (DonationKind, bool) {
	switch DonationKind(strings.ToLower(strings.TrimSpace(raw))) {
	case DonationKindClothes:
		return DonationKindClothes, true
	case DonationKindMoney:
		return DonationKindMoney, true
	case DonationKindOther:
		return DonationKindOther, true
	}
	return "", false
}

// HasWeight reports whether the kind carries a physical weight that counts
// toward a donor's diverted total.
func (k DonationKind) HasWeight() bool {
	return k == DonationKindClothes || k == DonationKindOther
}

// Grade is the classifier verdict for a clothing image. It is assigned once
// and never recomputed.
type Grade string

const (
	GradeA           Grade = "Grade A"
	GradeBC          Grade = "Grade B/C"
	GradeUnavailable Grade = "N/A"
)

// Donation is a single logged contribution. Exactly one of the weight or the
// money field groups is populated, selected by Kind; constructors and
// Validate keep that invariant.
type Donation struct {
	ID       string
	UserID   string
	CenterID string
	Kind     DonationKind

	// Clothes/other only.
	WeightKg *float64
	ImageKey *string
	Grade    *Grade

	// Money only.
	Amount   *float64
	Currency *string

	Description string
	CreatedAt   time.Time
}

// NewClothesDonation builds a weight-bearing donation. The image key and
// grade are optional and attached by the caller after upload/grading.
func NewClothesDonation(id, userID, centerID string, kind DonationKind, weightKg float64, description string) *Donation {
	return &Donation{
		ID:          id,
		UserID:      userID,
		CenterID:    centerID,
		Kind:        kind,
		WeightKg:    &weightKg,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewMoneyDonation builds a monetary donation.
func NewMoneyDonation(id, userID, centerID string, amount float64, currencyCode, description string) *Donation {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	return &Donation{
		ID:          id,
		UserID:      userID,
		CenterID:    centerID,
		Kind:        DonationKindMoney,
		Amount:      &amount,
		Currency:    &code,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// AttachImage records the stored image reference and the grade assigned to it.
func (d *Donation) AttachImage(key string, grade Grade) {
	d.ImageKey = &key
	d.Grade = &grade
}

// Validate checks the kind/field invariants. It returns a *ValidationError
// naming the first offending field.
func (d *Donation) Validate() error {
	if d.UserID == "" {
		return NewValidationError("user_id", "donor is required")
	}
	if d.CenterID == "" {
		return NewValidationError("center_id", "please select a center")
	}
	switch d.Kind {
	case DonationKindClothes, DonationKindOther:
		if d.WeightKg == nil {
			return NewValidationError("weight_kg", "weight is required")
		}
		if !isFinite(*d.WeightKg) || *d.WeightKg <= 0 {
			return NewValidationError("weight_kg", "weight must be positive")
		}
		if d.Amount != nil || d.Currency != nil {
			return NewValidationError("amount", "not applicable for a clothing donation")
		}
	case DonationKindMoney:
		if d.Amount == nil {
			return NewValidationError("amount", "amount is required")
		}
		if !isFinite(*d.Amount) || *d.Amount < 0 {
			return NewValidationError("amount", "amount must not be negative")
		}
		if d.Currency == nil || *d.Currency == "" {
			return NewValidationError("currency", "currency is required")
		}
		if _, err := currency.ParseISO(*d.Currency); err != nil {
			return NewValidationError("currency", "unsupported currency code")
		}
		if d.WeightKg != nil || d.ImageKey != nil || d.Grade != nil {
			return NewValidationError("weight_kg", "not applicable for a money donation")
		}
	default:
		return NewValidationError("kind", "must be one of clothes, money, other")
	}
	if d.Grade != nil && d.ImageKey == nil {
		return NewValidationError("grade", "grade requires an image")
	}
	return nil
}

// isFinite rejects NaN and the infinities, which pass plain comparisons and
// would otherwise poison the donor's running counter.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
