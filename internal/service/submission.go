// Package service sequences a donation submission: image persistence,
// best-effort grading, and the ledger write.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"greencycle/internal/domain"
)

// ErrImageSave marks a failed image write. A clothing submission that
// included an image is aborted on this error: nothing is recorded.
var ErrImageSave = errors.New("could not save image")

// ImageStore persists uploaded image bytes under a unique key.
type ImageStore interface {
	SaveUpload(ctx context.Context, filename string, data []byte) (string, error)
}

// Grader classifies a clothing image. Implementations never fail; an
// unusable classification is reported as domain.GradeUnavailable.
type Grader interface {
	Grade(ctx context.Context, imageData []byte, mimeType string) domain.Grade
}

// ImageUpload carries a validated upload from the HTTP boundary.
type ImageUpload struct {
	Filename string
	MIME     string
	Data     []byte
}

// SubmissionInput is one donation submission with a resolved donor identity.
type SubmissionInput struct {
	UserID      string
	CenterID    string
	Kind        domain.DonationKind
	WeightKg    *float64
	Amount      *float64
	Currency    string
	Description string
	Image       *ImageUpload
}

// SubmissionResult reports the terminal state of a successful submission.
type SubmissionResult struct {
	Donation *domain.Donation
	Graded   bool
	Messages []string
}

// SubmissionService orchestrates donation submissions.
type SubmissionService struct {
	donations domain.DonationRepository
	centers   domain.CenterRepository
	store     ImageStore
	grader    Grader
	logger    zerolog.Logger
	newID     func() string
}

// NewSubmissionService wires the orchestrator's collaborators.
func NewSubmissionService(donations domain.DonationRepository, centers domain.CenterRepository, store ImageStore, grader Grader, logger zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		donations: donations,
		centers:   centers,
		store:     store,
		grader:    grader,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Submit runs one submission to a terminal state. Validation failures return
// a *domain.ValidationError with nothing written. For a clothing donation
// with an image, a failed image save aborts the submission before any
// grading call or ledger write; a failed grading call never does.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (*SubmissionResult, error) {
	if in.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := s.centers.GetByID(ctx, in.CenterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("center_id", "unknown collection center")
		}
		return nil, fmt.Errorf("look up center: %w", err)
	}

	donation, err := s.buildDonation(in)
	if err != nil {
		return nil, err
	}
	if err := donation.Validate(); err != nil {
		return nil, err
	}

	result := &SubmissionResult{Donation: donation}

	if donation.Kind.HasWeight() && in.Image != nil {
		key, err := s.store.SaveUpload(ctx, in.Image.Filename, in.Image.Data)
		if err != nil {
			s.logger.Error().Err(err).Msg("submission: image save failed")
			return nil, fmt.Errorf("%w: %w", ErrImageSave, err)
		}
		result.Messages = append(result.Messages, "Image uploaded! Analyzing grade...")

		grade := s.grader.Grade(ctx, in.Image.Data, in.Image.MIME)
		donation.AttachImage(key, grade)
		result.Graded = true
		result.Messages = append(result.Messages, fmt.Sprintf("AI has graded your donation: %s", grade))
	}

	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("record donation: %w", err)
	}
	result.Messages = append(result.Messages, "Thank you for your donation! It has been logged.")
	return result, nil
}

func (s *SubmissionService) buildDonation(in SubmissionInput) (*domain.Donation, error) {
	switch {
	case in.Kind == domain.DonationKindMoney:
		if in.Amount == nil {
			return nil, domain.NewValidationError("amount", "amount is required")
		}
		return domain.NewMoneyDonation(s.newID(), in.UserID, in.CenterID, *in.Amount, in.Currency, in.Description), nil
	case in.Kind.HasWeight():
		if in.WeightKg == nil {
			return nil, domain.NewValidationError("weight_kg", "weight is required")
		}
		return domain.NewClothesDonation(s.newID(), in.UserID, in.CenterID, in.Kind, *in.WeightKg, in.Description), nil
	default:
		return nil, domain.NewValidationError("kind", "must be one of clothes, money, other")
	}
}
