package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"greencycle/internal/domain"
	"greencycle/internal/service"
)

const maxUploadBytes = 5 << 20 // 5 MiB

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type donationDTO struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	CenterID    string    `json:"center_id"`
	WeightKg    *float64  `json:"weight_kg,omitempty"`
	Amount      *float64  `json:"amount,omitempty"`
	Currency    *string   `json:"currency,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Grade       *string   `json:"grade,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func donationToDTO(d *domain.Donation) donationDTO {
	dto := donationDTO{
		ID:          d.ID,
		Kind:        string(d.Kind),
		CenterID:    d.CenterID,
		WeightKg:    d.WeightKg,
		Amount:      d.Amount,
		Currency:    d.Currency,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
	if d.ImageKey != nil {
		url := "/v1/uploads/" + *d.ImageKey
		dto.ImageURL = &url
	}
	if d.Grade != nil {
		grade := string(*d.Grade)
		dto.Grade = &grade
	}
	return dto
}

// DonationsCreate handles the donation form: a multipart POST with the
// donation fields and an optional clothing photo.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes + 1<<20); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	kind, ok := domain.ParseDonationKind(r.FormValue("kind"))
	if !ok {
		a.fieldError(w, domain.NewValidationError("kind", "must be one of clothes, money, other"))
		return
	}
	in := service.SubmissionInput{
		UserID:      userID,
		CenterID:    strings.TrimSpace(r.FormValue("center_id")),
		Kind:        kind,
		Currency:    r.FormValue("currency"),
		Description: r.FormValue("description"),
	}
	var err error
	if in.WeightKg, err = optionalFloat(r.FormValue("weight_kg")); err != nil {
		a.fieldError(w, domain.NewValidationError("weight_kg", "must be a number"))
		return
	}
	if in.Amount, err = optionalFloat(r.FormValue("amount")); err != nil {
		a.fieldError(w, domain.NewValidationError("amount", "must be a number"))
		return
	}

	if file, header, ferr := r.FormFile("image"); ferr == nil {
		defer file.Close()
		upload, verr := readImageUpload(file, header)
		if verr != nil {
			a.fieldError(w, verr)
			return
		}
		in.Image = upload
	} else if !errors.Is(ferr, http.ErrMissingFile) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid image upload")
		return
	}

	result, err := a.Submissions.Submit(r.Context(), in)
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			a.fieldError(w, ve)
			return
		}
		if errors.Is(err, service.ErrImageSave) {
			a.error(w, http.StatusInternalServerError, "storage_error", "There was an error saving your image.")
			return
		}
		a.Logger.Error().Err(err).Msg("donation submission failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"donation": donationToDTO(result.Donation),
		"messages": result.Messages,
	})
}

// DonationsMine lists the authenticated donor's donations, newest first.
func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	donations, err := a.Donations.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list donations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	items := make([]donationDTO, 0, len(donations))
	for i := range donations {
		items = append(items, donationToDTO(&donations[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// readImageUpload enforces the upload preconditions: jpg/jpeg/png only and at
// most 5 MiB, checked before the core ever sees the bytes.
func readImageUpload(file multipart.File, header *multipart.FileHeader) (*service.ImageUpload, *domain.ValidationError) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	mime, ok := allowedImageExtensions[ext]
	if !ok {
		return nil, domain.NewValidationError("image", "only jpg, jpeg and png images are allowed")
	}
	if header.Size > maxUploadBytes {
		return nil, domain.NewValidationError("image", "file must be 5MB or less")
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, domain.NewValidationError("image", "could not read uploaded file")
	}
	if len(data) > maxUploadBytes {
		return nil, domain.NewValidationError("image", "file must be 5MB or less")
	}
	return &service.ImageUpload{Filename: header.Filename, MIME: mime, Data: data}, nil
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
