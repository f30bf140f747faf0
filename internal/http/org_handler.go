package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// OrgHandler serves the org-settings surface: reads of the org record and
// single-column patches routed through the caller's profile.
type OrgHandler struct {
	orgs   repository.OrgsRepo
	logger *zap.Logger
}

func NewOrgHandler(orgs repository.OrgsRepo, logger *zap.Logger) *OrgHandler {
	return &OrgHandler{orgs: orgs, logger: logger}
}

func nullableText(ns sql.NullString) any {
	if !ns.Valid {
		return nil
	}
	return ns.String
}

func orgContentFields(org *domain.Org) map[string]any {
	return map[string]any{
		"default_hours_of_operation": nullableText(org.DefaultHoursOfOperation),
		"agent_name":                 nullableText(org.AgentName),
		"company_name":               nullableText(org.CompanyName),
		"documents_needed":           nullableText(org.DocumentsNeeded),
		"cost_to_release_short":      nullableText(org.CostToReleaseShort),
		"cost_to_release_long":       nullableText(org.CostToReleaseLong),
		"default_address":            nullableText(org.DefaultAddress),
		"time_zone":                  nullableText(org.TimeZone),
	}
}

// Content GET /orgs/content, the caller's org settings.
func (h *OrgHandler) Content(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	org, err := h.orgs.GetByUserID(r.Context(), user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user")
		return
	}
	if err != nil {
		h.logger.Error("org content read failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching organization content")
		return
	}

	writeJSON(w, http.StatusOK, orgContentFields(org))
}

// ContentByPhone GET /orgs/content/by-phone?phone_number=, a public read
// used by landing pages; same fields as Content plus the org id.
func (h *OrgHandler) ContentByPhone(w http.ResponseWriter, r *http.Request) {
	phoneNumber := r.URL.Query().Get("phone_number")
	if phoneNumber == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "phone_number query parameter is required")
		return
	}

	org, err := h.orgs.GetByPhoneNumber(r.Context(), phoneNumber)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this phone number")
		return
	}
	if err != nil {
		h.logger.Error("org lookup by phone failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching organization content")
		return
	}

	fields := orgContentFields(org)
	fields["id"] = org.ID
	writeJSON(w, http.StatusOK, fields)
}

// patchText runs the shared update flow for a required single text column:
// decode {field: value}, validate, update through the profile join, echo the
// stored value back.
func (h *OrgHandler) patchText(w http.ResponseWriter, r *http.Request, field, message string,
	validate func(string) error,
	set func(ctx context.Context, userID, value string) error,
) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body map[string]string
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	value := body[field]
	if validate != nil {
		if err := validate(value); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	err := set(r.Context(), user.ID, value)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user")
		return
	}
	if err != nil {
		h.logger.Error("org column update failed", zap.String("field", field), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error updating organization")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": message, field: value})
}

// patchBulletList is patchText for the nullable bullet-list columns: input is
// validated as a markdown bullet list and blank input is stored as NULL.
func (h *OrgHandler) patchBulletList(w http.ResponseWriter, r *http.Request, field, message string,
	set func(ctx context.Context, userID string, value *string) error,
) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body map[string]string
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	value := body[field]
	if err := domain.ValidateBulletList(field, value); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var stored *string
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		stored = &trimmed
	}

	err := set(r.Context(), user.ID, stored)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user")
		return
	}
	if err != nil {
		h.logger.Error("org column update failed", zap.String("field", field), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error updating organization")
		return
	}

	echoed := ""
	if stored != nil {
		echoed = *stored
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message, field: echoed})
}

func notEmpty(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func (h *OrgHandler) PatchAgentName(w http.ResponseWriter, r *http.Request) {
	h.patchText(w, r, "agent_name", "Agent name updated successfully",
		notEmpty("agent_name"), h.orgs.SetAgentName)
}

func (h *OrgHandler) PatchCompanyName(w http.ResponseWriter, r *http.Request) {
	h.patchText(w, r, "company_name", "Company name updated successfully",
		notEmpty("company_name"), h.orgs.SetCompanyName)
}

func (h *OrgHandler) PatchDefaultAddress(w http.ResponseWriter, r *http.Request) {
	h.patchText(w, r, "default_address", "Default address updated successfully",
		notEmpty("default_address"), h.orgs.SetDefaultAddress)
}

func (h *OrgHandler) PatchTimeZone(w http.ResponseWriter, r *http.Request) {
	h.patchText(w, r, "time_zone", "Time zone updated successfully",
		notEmpty("time_zone"), h.orgs.SetTimeZone)
}

func (h *OrgHandler) PatchDefaultHours(w http.ResponseWriter, r *http.Request) {
	h.patchText(w, r, "default_hours_of_operation", "Default hours of operation updated successfully",
		domain.ValidateWeeklyHours, h.orgs.SetDefaultHours)
}

func (h *OrgHandler) PatchDocumentsNeeded(w http.ResponseWriter, r *http.Request) {
	h.patchBulletList(w, r, "documents_needed", "Documents needed updated successfully",
		h.orgs.SetDocumentsNeeded)
}

func (h *OrgHandler) PatchAuctionTriggers(w http.ResponseWriter, r *http.Request) {
	h.patchBulletList(w, r, "auction_triggers", "Auction triggers updated successfully",
		h.orgs.SetAuctionTriggers)
}

func (h *OrgHandler) PatchCostToReleaseShort(w http.ResponseWriter, r *http.Request) {
	h.patchBulletList(w, r, "cost_to_release_short", "Cost to release short updated successfully",
		h.orgs.SetCostToReleaseShort)
}

func (h *OrgHandler) PatchCostToReleaseLong(w http.ResponseWriter, r *http.Request) {
	h.patchBulletList(w, r, "cost_to_release_long", "Cost to release long updated successfully",
		h.orgs.SetCostToReleaseLong)
}

// PhoneNumber GET /phone-number, the number bound to the caller's org.
func (h *OrgHandler) PhoneNumber(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	org, err := h.orgs.GetByUserID(r.Context(), user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user")
		return
	}
	if err != nil {
		h.logger.Error("phone number read failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching phone number")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"phone_number": nullableText(org.PhoneNumber)})
}
