package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// AddressHandler CRUD over the org's lot addresses.
type AddressHandler struct {
	addresses repository.AddressesRepo
	logger    *zap.Logger
}

func NewAddressHandler(addresses repository.AddressesRepo, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{addresses: addresses, logger: logger}
}

func (h *AddressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *AddressHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rows, err := h.addresses.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("address list failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching addresses")
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"id":      row.ID,
			"address": row.Address,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"addresses": out})
}

func (h *AddressHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		Address string `json:"address"`
	}
	if err := readBodyJSON(r, &body); err != nil || body.Address == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "address is required")
		return
	}

	row, err := h.addresses.Create(r.Context(), user.ID, body.Address)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user or insertion failed")
		return
	}
	if err != nil {
		h.logger.Error("address create failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error creating address")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Address created successfully",
		"address": map[string]any{
			"id":         row.ID,
			"address":    row.Address,
			"org_id":     row.OrgID,
			"created_at": row.CreatedAt.Format(time.RFC3339),
		},
	})
}

func (h *AddressHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := readBodyJSON(r, &body); err != nil || body.ID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "id is required")
		return
	}

	err := h.addresses.Delete(r.Context(), user.ID, body.ID)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Address not found or does not belong to your organization")
		return
	}
	if err != nil {
		h.logger.Error("address delete failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error deleting address")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Address deleted successfully",
		"id":      body.ID,
	})
}
