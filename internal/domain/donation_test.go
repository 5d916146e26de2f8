package domain

import (
	"math"
	"testing"
)

func TestValidateClothesRequiresPositiveWeight(t *testing.T) {
	cases := []struct {
		name   string
		weight *float64
		field  string
	}{
		{name: "missing", weight: nil, field: "weight_kg"},
		{name: "zero", weight: ptr(0.0), field: "weight_kg"},
		{name: "negative", weight: ptr(-2.5), field: "weight_kg"},
		{name: "nan", weight: ptr(math.NaN()), field: "weight_kg"},
		{name: "positive inf", weight: ptr(math.Inf(1)), field: "weight_kg"},
		{name: "negative inf", weight: ptr(math.Inf(-1)), field: "weight_kg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Donation{
				ID:       "d-1",
				UserID:   "u-1",
				CenterID: "c-1",
				Kind:     DonationKindClothes,
				WeightKg: tc.weight,
			}
			err := d.Validate()
			ve, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestValidateMoneyRejectsNegativeAmount(t *testing.T) {
	d := NewMoneyDonation("d-1", "u-1", "c-1", -1, "USD", "")
	ve, ok := AsValidationError(d.Validate())
	if !ok {
		t.Fatalf("expected validation error")
	}
	if ve.Field != "amount" {
		t.Fatalf("field = %q, want amount", ve.Field)
	}
}

func TestValidateMoneyRejectsNonFiniteAmount(t *testing.T) {
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		d := NewMoneyDonation("d-1", "u-1", "c-1", amount, "USD", "")
		ve, ok := AsValidationError(d.Validate())
		if !ok {
			t.Fatalf("amount %v passed validation", amount)
		}
		if ve.Field != "amount" {
			t.Fatalf("field = %q, want amount", ve.Field)
		}
	}
}

func TestValidateMoneyRejectsUnknownCurrency(t *testing.T) {
	d := NewMoneyDonation("d-1", "u-1", "c-1", 10, "XXXX", "")
	ve, ok := AsValidationError(d.Validate())
	if !ok {
		t.Fatalf("expected validation error")
	}
	if ve.Field != "currency" {
		t.Fatalf("field = %q, want currency", ve.Field)
	}
}

func TestValidateMoneyAcceptsISOCurrencies(t *testing.T) {
	for _, code := range []string{"INR", "USD", "EUR", "GBP", "JPY", "SGD"} {
		d := NewMoneyDonation("d-1", "u-1", "c-1", 0, code, "zero is allowed")
		if err := d.Validate(); err != nil {
			t.Fatalf("currency %s rejected: %v", code, err)
		}
	}
}

func TestValidateGradeRequiresImage(t *testing.T) {
	d := NewClothesDonation("d-1", "u-1", "c-1", DonationKindClothes, 3.5, "")
	grade := GradeA
	d.Grade = &grade
	ve, ok := AsValidationError(d.Validate())
	if !ok {
		t.Fatalf("expected validation error")
	}
	if ve.Field != "grade" {
		t.Fatalf("field = %q, want grade", ve.Field)
	}
}

func TestValidateClothesWithImageAndGrade(t *testing.T) {
	d := NewClothesDonation("d-1", "u-1", "c-1", DonationKindOther, 1.2, "old curtains")
	d.AttachImage("20240102030405_curtains.jpg", GradeBC)
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseDonationKind(t *testing.T) {
	if k, ok := ParseDonationKind(" Clothes "); !ok || k != DonationKindClothes {
		t.Fatalf("parse clothes: got %q ok=%v", k, ok)
	}
	if _, ok := ParseDonationKind("furniture"); ok {
		t.Fatalf("expected furniture to be rejected")
	}
}

func ptr(f float64) *float64 { return &f }
