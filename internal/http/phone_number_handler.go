package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
	"github.com/michaelhiggins8/vimpound-backend/internal/telephony"
)

// PhoneNumberHandler provisions and reconfigures the free provider-owned
// phone number bound to the caller's org.
type PhoneNumberHandler struct {
	orgs             repository.OrgsRepo
	telephony        *telephony.Client
	defaultServerURL string
	logger           *zap.Logger
}

func NewPhoneNumberHandler(orgs repository.OrgsRepo, client *telephony.Client, defaultServerURL string, logger *zap.Logger) *PhoneNumberHandler {
	return &PhoneNumberHandler{
		orgs:             orgs,
		telephony:        client,
		defaultServerURL: defaultServerURL,
		logger:           logger,
	}
}

// writeUpstream surfaces a provider error with its original status code so
// the dashboard can show what went wrong.
func (h *PhoneNumberHandler) writeUpstream(w http.ResponseWriter, err error, fallback string) {
	var upstream *telephony.UpstreamError
	if errors.As(err, &upstream) {
		writeDetail(w, upstream.StatusCode, map[string]any{"error": upstream.Body})
		return
	}
	h.logger.Error("telephony request failed", zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, fallback)
}

func writeRawNumber(w http.ResponseWriter, pn *telephony.PhoneNumber) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pn.Raw)
}

func (h *PhoneNumberHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPatch:
		h.change(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// create POST /vapi/phone-numbers/free: provision a number in the requested
// area code, then bind it to the org.
func (h *PhoneNumberHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ServerURL string `json:"server_url"`
		AreaCode  string `json:"area_code"`
		Name      string `json:"name"`
	}
	if err := readBodyJSON(r, &body); err != nil || body.AreaCode == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "area_code is required")
		return
	}

	serverURL := body.ServerURL
	if serverURL == "" {
		serverURL = h.defaultServerURL
	}

	pn, err := h.telephony.CreateNumber(r.Context(), telephony.CreateNumberParams{
		AreaCode:  body.AreaCode,
		ServerURL: serverURL,
		Name:      body.Name,
	})
	if err != nil {
		h.writeUpstream(w, err, "Error provisioning phone number")
		return
	}

	if err := h.orgs.SetPhoneBinding(r.Context(), user.ID, pn.Number, pn.ID); err != nil {
		h.logger.Error("phone binding update failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error saving phone number")
		return
	}

	writeRawNumber(w, pn)
}

// change PATCH /vapi/phone-numbers/free. With area_code it provisions a new
// number, releases the old one, and rebinds; otherwise it patches server url
// and/or name in place.
func (h *PhoneNumberHandler) change(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ServerURL string `json:"server_url"`
		AreaCode  string `json:"area_code"`
		Name      string `json:"name"`
	}
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	existingNumber, oldPhoneID, err := h.orgs.GetPhoneBinding(r.Context(), user.ID)
	if errors.Is(err, repository.ErrNotFound) || oldPhoneID == "" {
		writeDetail(w, http.StatusNotFound, "No phone number found for this user's organization")
		return
	}
	if err != nil {
		h.logger.Error("phone binding read failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching phone number")
		return
	}

	if body.AreaCode != "" {
		h.reprovision(w, r, user.ID, oldPhoneID, body.AreaCode, body.ServerURL, body.Name)
		return
	}

	if body.ServerURL == "" && body.Name == "" {
		writeDetail(w, http.StatusBadRequest, "At least one field (server_url, name, or area_code) must be provided to update")
		return
	}

	pn, err := h.telephony.UpdateNumber(r.Context(), oldPhoneID, telephony.UpdateNumberParams{
		ServerURL: body.ServerURL,
		Name:      body.Name,
	})
	if err != nil {
		h.writeUpstream(w, err, "Error updating phone number")
		return
	}

	number := pn.Number
	if number == "" {
		number = existingNumber
	}
	if err := h.orgs.SetPhoneBinding(r.Context(), user.ID, number, oldPhoneID); err != nil {
		h.logger.Error("phone binding update failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error saving phone number")
		return
	}

	writeRawNumber(w, pn)
}

func (h *PhoneNumberHandler) reprovision(w http.ResponseWriter, r *http.Request, userID, oldPhoneID, areaCode, serverURL, name string) {
	if serverURL == "" {
		existing, err := h.telephony.GetNumber(r.Context(), oldPhoneID)
		if err != nil {
			h.writeUpstream(w, err, "Error fetching existing phone number")
			return
		}
		serverURL = existing.Server.URL
		if serverURL == "" {
			writeDetail(w, http.StatusBadRequest, "server_url is required when changing area code, and existing number has no server_url configured")
			return
		}
	}

	pn, err := h.telephony.CreateNumber(r.Context(), telephony.CreateNumberParams{
		AreaCode:  areaCode,
		ServerURL: serverURL,
		Name:      name,
	})
	if err != nil {
		h.writeUpstream(w, err, "Error provisioning phone number")
		return
	}

	// The new number exists either way; a failed release is logged, not fatal.
	if err := h.telephony.DeleteNumber(r.Context(), oldPhoneID); err != nil {
		h.logger.Warn("failed to release old phone number",
			zap.String("phone_id", oldPhoneID), zap.Error(err))
	}

	if err := h.orgs.SetPhoneBinding(r.Context(), userID, pn.Number, pn.ID); err != nil {
		h.logger.Error("phone binding update failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error saving phone number")
		return
	}

	writeRawNumber(w, pn)
}
