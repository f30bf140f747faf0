package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// vehicleExportHeader column order of the inventory export.
var vehicleExportHeader = []string{
	"Status",
	"Make",
	"Model",
	"Year",
	"Color",
	"VIN Number",
	"Plate Number",
	"Owner First Name",
	"Owner Last Name",
	"Location",
	"Created At",
}

// generateVehicleExport builds an xlsx workbook with a bold header row and one
// row per vehicle, newest first.
func generateVehicleExport(vehicles []domain.Vehicle) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close only on the error paths.

	sheetName := "Vehicles"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range vehicleExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx := range vehicles {
		v := &vehicles[rowIdx]
		var year any
		if v.Year.Valid {
			year = v.Year.Int64
		}
		values := []any{
			nullableText(v.Status),
			nullableText(v.Make),
			nullableText(v.Model),
			year,
			nullableText(v.Color),
			nullableText(v.VINNumber),
			nullableText(v.PlateNumber),
			nullableText(v.OwnerFirstName),
			nullableText(v.OwnerLastName),
			nullableText(v.Location),
			v.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// Export GET /vehicles/export, the org's full inventory as an xlsx download.
func (h *VehicleHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	vehicles, err := h.vehicles.ListAllByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("vehicle export read failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error fetching vehicles")
		return
	}

	data, err := generateVehicleExport(vehicles)
	if err != nil {
		h.logger.Error("vehicle export generation failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error generating export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=vehicles-export.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
