package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"greencycle/internal/domain"
	"greencycle/internal/middleware"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userProfileDTO struct {
	ID                   string  `json:"id"`
	Username             string  `json:"username"`
	Email                string  `json:"email"`
	TotalWasteDivertedKg float64 `json:"total_waste_diverted_kg"`
}

func profileDTO(u *domain.User) userProfileDTO {
	return userProfileDTO{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		TotalWasteDivertedKg: u.TotalWasteDivertedKg,
	}
}

func (a *App) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		a.fieldError(w, domain.NewValidationError("username", "username is required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		a.fieldError(w, domain.NewValidationError("email", "a valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		a.fieldError(w, domain.NewValidationError("password", "password must be at least 8 characters"))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to register")
		return
	}
	user, err := a.Users.Create(r.Context(), &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			a.error(w, http.StatusConflict, "duplicate", "please use a different username or email")
			return
		}
		a.Logger.Error().Err(err).Msg("register failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to register")
		return
	}
	a.json(w, http.StatusCreated, profileDTO(user))
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	user, err := a.Users.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
			return
		}
		a.Logger.Error().Err(err).Msg("login lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
		return
	}
	token, err := middleware.SignJWT(a.JWTSecret, user.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  profileDTO(user),
	})
}

// Me returns the authenticated donor's profile and stats.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}
