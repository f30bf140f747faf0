package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// UserHandler the signup bootstrap: creates the org and profile pair for a
// freshly registered identity.
type UserHandler struct {
	profiles repository.ProfilesRepo
	logger   *zap.Logger
}

func NewUserHandler(profiles repository.ProfilesRepo, logger *zap.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

// MakeUser POST /make-user. Idempotent: an existing profile is returned
// untouched. The body's user_id must match the authenticated identity.
func (h *UserHandler) MakeUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		UserID string `json:"user_id"`
	}
	if err := readBodyJSON(r, &body); err != nil || body.UserID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "user_id is required")
		return
	}

	if body.UserID != user.ID {
		writeDetail(w, http.StatusForbidden, "User ID in request body does not match authenticated user")
		return
	}

	existing, err := h.profiles.Get(r.Context(), user.ID)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":            "User profile already exists",
			"org_id":             existing.OrgID,
			"profile_id":         existing.ID,
			"profile_created_at": existing.CreatedAt.Format(time.RFC3339),
		})
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		h.logger.Error("profile read failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	profile, err := h.profiles.CreateOrgAndProfile(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("org and profile create failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "User created successfully",
		"org_id":             profile.OrgID,
		"profile_id":         profile.ID,
		"profile_created_at": profile.CreatedAt.Format(time.RFC3339),
	})
}
