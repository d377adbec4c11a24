package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"screenlist/internal/models"
	"screenlist/internal/services"
)

// Accounts is what the auth and profile endpoints need from the user service.
type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (string, error)
	Onboard(ctx context.Context, userID string, in services.OnboardInput) (string, error)
	Profile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in services.ProfileUpdate) (models.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type AuthHandler struct {
	*base
	accounts Accounts
}

func NewAuthHandler(accounts Accounts, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{base: newBase(logger), accounts: accounts}
}

// Register creates an account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	if _, err := h.accounts.Register(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// Onboard completes the caller's profile and returns a refreshed token.
// POST /api/v1/auth/onboard
func (h *AuthHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var in services.OnboardInput
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	token, err := h.accounts.Onboard(r.Context(), userID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// GET /api/v1/user/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	profile, err := h.accounts.Profile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": profile})
}

// PUT /api/v1/user/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var in services.ProfileUpdate
	if err := h.decode(r, &in); err != nil {
		h.badRequest(w, err)
		return
	}

	profile, err := h.accounts.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": profile})
}

// DELETE /api/v1/user/profile
func (h *AuthHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.accounts.DeleteAccount(r.Context(), userID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
