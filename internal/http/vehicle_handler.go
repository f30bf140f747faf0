package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

const vehiclePageSize = 10

// VehicleHandler staff CRUD over the org's vehicle inventory.
type VehicleHandler struct {
	vehicles repository.VehiclesRepo
	logger   *zap.Logger
}

func NewVehicleHandler(vehicles repository.VehiclesRepo, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, logger: logger}
}

func nullableInt(ni sql.NullInt64) any {
	if !ni.Valid {
		return nil
	}
	return ni.Int64
}

func vehicleFields(v *domain.Vehicle) map[string]any {
	return map[string]any{
		"id":               v.ID,
		"created_at":       v.CreatedAt.Format(time.RFC3339),
		"status":           nullableText(v.Status),
		"make":             nullableText(v.Make),
		"model":            nullableText(v.Model),
		"year":             nullableInt(v.Year),
		"color":            nullableText(v.Color),
		"vin_number":       nullableText(v.VINNumber),
		"plate_number":     nullableText(v.PlateNumber),
		"owner_first_name": nullableText(v.OwnerFirstName),
		"owner_last_name":  nullableText(v.OwnerLastName),
		"location":         nullableText(v.Location),
	}
}

func (h *VehicleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.page(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// page GET /vehicles?page=N: 10 per page, newest first.
func (h *VehicleHandler) page(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	page := parseIntParam(r.URL.Query().Get("page"), 0)
	if page < 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "page must be >= 0")
		return
	}

	rows, err := h.vehicles.ListByUser(r.Context(), user.ID, vehiclePageSize, page*vehiclePageSize)
	if err != nil {
		h.logger.Error("vehicle page read failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching vehicles")
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, vehicleFields(&rows[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vehicles":  out,
		"page":      page,
		"page_size": vehiclePageSize,
		"count":     len(out),
	})
}

func (h *VehicleHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		Status         string `json:"status"`
		Make           string `json:"make"`
		Model          string `json:"model"`
		Year           int    `json:"year"`
		Color          string `json:"color"`
		VINNumber      string `json:"vin_number"`
		PlateNumber    string `json:"plate_number"`
		OwnerFirstName string `json:"owner_first_name"`
		OwnerLastName  string `json:"owner_last_name"`
		Location       string `json:"location"`
	}
	if err := readBodyJSON(r, &body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	vehicle, err := h.vehicles.Create(r.Context(), user.ID, repository.NewVehicle{
		Status:         body.Status,
		Make:           body.Make,
		Model:          body.Model,
		Year:           body.Year,
		Color:          body.Color,
		VINNumber:      body.VINNumber,
		PlateNumber:    body.PlateNumber,
		OwnerFirstName: body.OwnerFirstName,
		OwnerLastName:  body.OwnerLastName,
		Location:       body.Location,
	})
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "No organization found for this user or insertion failed")
		return
	}
	if err != nil {
		h.logger.Error("vehicle create failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error creating vehicle")
		return
	}

	fields := vehicleFields(vehicle)
	fields["org_id"] = vehicle.OrgID
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vehicle created successfully",
		"vehicle": fields,
	})
}

func (h *VehicleHandler) delete(w http.ResponseWriter, r *http.Request) {
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

	err := h.vehicles.Delete(r.Context(), user.ID, body.ID)
	if errors.Is(err, repository.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Vehicle not found or does not belong to your organization")
		return
	}
	if err != nil {
		h.logger.Error("vehicle delete failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error deleting vehicle")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vehicle deleted successfully",
		"id":      body.ID,
	})
}
