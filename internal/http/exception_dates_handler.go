package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// ExceptionDateHandler CRUD over the per-date overrides of the weekly hours.
type ExceptionDateHandler struct {
	exceptionDates repository.ExceptionDatesRepo
	logger         *zap.Logger
}

func NewExceptionDateHandler(exceptionDates repository.ExceptionDatesRepo, logger *zap.Logger) *ExceptionDateHandler {
	return &ExceptionDateHandler{exceptionDates: exceptionDates, logger: logger}
}

// coerceID accepts the row id as a JSON number or a numeric string; the
// frontend sends either depending on the form widget.
func coerceID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func (h *ExceptionDateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *ExceptionDateHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rows, err := h.exceptionDates.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("exception date list failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching exception dates")
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"id":    row.ID,
			"date":  row.Date,
			"hours": row.Hours,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exception_dates": out,
		"count":           len(out),
	})
}

func (h *ExceptionDateHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		Date  string `json:"date"`
		Hours string `json:"hours"`
	}
	if err := readBodyJSON(r, &body); err != nil || body.Date == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "date and hours are required")
		return
	}

	row, err := h.exceptionDates.Create(r.Context(), user.ID, body.Date, body.Hours)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user")
		return
	}
	if err != nil {
		h.logger.Error("exception date create failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error creating exception date")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Exception date created successfully",
		"date":    row.Date,
		"hours":   row.Hours,
		"org_id":  row.OrgID,
	})
}

func (h *ExceptionDateHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ID    any    `json:"id"`
		Hours string `json:"hours"`
	}
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	id, ok := coerceID(body.ID)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}

	err := h.exceptionDates.UpdateHours(r.Context(), user.ID, id, body.Hours)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Exception date not found or does not belong to your organization")
		return
	}
	if err != nil {
		h.logger.Error("exception date update failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error updating exception date")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Exception date updated successfully",
		"id":      id,
		"hours":   body.Hours,
	})
}

func (h *ExceptionDateHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		ID any `json:"id"`
	}
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	id, ok := coerceID(body.ID)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}

	err := h.exceptionDates.Delete(r.Context(), user.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Exception date not found or does not belong to your organization")
		return
	}
	if err != nil {
		h.logger.Error("exception date delete failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error deleting exception date")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Exception date deleted successfully",
		"id":      id,
	})
}
