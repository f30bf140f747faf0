package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// VehicleCheckOutcome tags the vehicle lookup variants.
type VehicleCheckOutcome int

const (
	VehicleFound VehicleCheckOutcome = iota
	VehicleNotFound
	VehicleLookupError
)

// VehicleCheckResult carries the lookup variant plus the matched vehicle.
// The voice agent can only speak strings, so Spoken flattens every variant
// into a sentence; the error never propagates past this type.
type VehicleCheckResult struct {
	Outcome VehicleCheckOutcome
	Vehicle *domain.Vehicle
	Err     error
}

func textOr(ns sql.NullString, fallback string) string {
	if ns.Valid && ns.String != "" {
		return ns.String
	}
	return fallback
}

// Spoken renders the result as a single readable sentence, substituting
// "unknown <field>" for null columns.
func (r VehicleCheckResult) Spoken() string {
	switch r.Outcome {
	case VehicleFound:
		v := r.Vehicle
		year := "unknown year"
		if v.Year.Valid {
			year = fmt.Sprintf("%d", v.Year.Int64)
		}
		return fmt.Sprintf(
			"I found the vehicle in the lot. It is a %s %s %s %s with plate %s. "+
				"The VIN number is %s. The status is %s, and the recorded location is %s.",
			textOr(v.Color, "unknown color"),
			year,
			textOr(v.Make, "unknown make"),
			textOr(v.Model, "unknown model"),
			textOr(v.PlateNumber, "unknown plate"),
			textOr(v.VINNumber, "unknown VIN"),
			textOr(v.Status, "unknown"),
			textOr(v.Location, "unknown location"),
		)
	case VehicleNotFound:
		return "No vehicle was found matching the provided information."
	default:
		return "There was an error checking the vehicle."
	}
}

// VehicleCheckService answers the voice agent's "is my car in your lot"
// question by VIN or plate.
type VehicleCheckService struct {
	vehicles repository.VehiclesRepo
	logger   *zap.Logger
}

func NewVehicleCheckService(vehicles repository.VehiclesRepo, logger *zap.Logger) *VehicleCheckService {
	return &VehicleCheckService{vehicles: vehicles, logger: logger}
}

// Check finds at most one vehicle for (org, vin OR plate). Absence and
// datastore failure are both ordinary result variants here.
func (s *VehicleCheckService) Check(ctx context.Context, orgID, vin, plate string) VehicleCheckResult {
	v, err := s.vehicles.FindByVINOrPlate(ctx, orgID, vin, plate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return VehicleCheckResult{Outcome: VehicleNotFound}
		}
		s.logger.Error("Vehicle lookup failed",
			zap.String("org_id", orgID),
			zap.Error(err))
		return VehicleCheckResult{Outcome: VehicleLookupError, Err: err}
	}
	return VehicleCheckResult{Outcome: VehicleFound, Vehicle: v}
}
