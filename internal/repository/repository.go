package repository

import (
	"context"
	"errors"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// ErrNotFound is returned when no row matches the given key. Handlers map it
// to 404; the webhook core maps it to benign spoken fallbacks.
var ErrNotFound = errors.New("not found")

// OrgsRepo reads and mutates org rows. All user-scoped mutations resolve the
// org through the caller's profile in a single statement, so a user can only
// ever touch their own org.
type OrgsRepo interface {
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Org, error)
	GetByID(ctx context.Context, orgID string) (*domain.Org, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Org, error)

	SetAgentName(ctx context.Context, userID, value string) error
	SetCompanyName(ctx context.Context, userID, value string) error
	SetDefaultAddress(ctx context.Context, userID, value string) error
	SetTimeZone(ctx context.Context, userID, value string) error
	SetDefaultHours(ctx context.Context, userID, value string) error

	// Nullable bullet-list columns: nil stores NULL.
	SetDocumentsNeeded(ctx context.Context, userID string, value *string) error
	SetAuctionTriggers(ctx context.Context, userID string, value *string) error
	SetCostToReleaseShort(ctx context.Context, userID string, value *string) error
	SetCostToReleaseLong(ctx context.Context, userID string, value *string) error

	SetPhoneBinding(ctx context.Context, userID, phoneNumber, phoneID string) error
	GetPhoneBinding(ctx context.Context, userID string) (phoneNumber, phoneID string, err error)
}

// ProfilesRepo links auth users to orgs.
type ProfilesRepo interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	OrgIDForUser(ctx context.Context, userID string) (string, error)

	// IDByOrgPhoneNumber resolves the billing customer id (= profile id) for
	// the org bound to the given phone number.
	IDByOrgPhoneNumber(ctx context.Context, phoneNumber string) (string, error)

	// CreateOrgAndProfile inserts the org row and the profile row in one
	// transaction; both persist or neither does.
	CreateOrgAndProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// NewVehicle carries the staff-entered fields for a vehicle insert.
type NewVehicle struct {
	Status         string
	Make           string
	Model          string
	Year           int
	Color          string
	VINNumber      string
	PlateNumber    string
	OwnerFirstName string
	OwnerLastName  string
	Location       string
}

// VehiclesRepo create/read/delete over vehicle rows.
type VehiclesRepo interface {
	// FindByVINOrPlate returns at most one vehicle where the org matches and
	// vin_number or plate_number equals the given values. When both match
	// different rows the most recently created one wins.
	FindByVINOrPlate(ctx context.Context, orgID, vin, plate string) (*domain.Vehicle, error)

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Vehicle, error)
	ListAllByUser(ctx context.Context, userID string) ([]domain.Vehicle, error)
	Create(ctx context.Context, userID string, v NewVehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, userID, vehicleID string) error
}

// AddressesRepo create/read/delete over address rows.
type AddressesRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, userID, address string) (*domain.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
}

// ExceptionDatesRepo per-date overrides of the weekly default hours.
type ExceptionDatesRepo interface {
	// GetByOrgAndDate matches the literal date string exactly.
	GetByOrgAndDate(ctx context.Context, orgID, date string) (*domain.ExceptionDate, error)

	ListByUser(ctx context.Context, userID string) ([]domain.ExceptionDate, error)
	Create(ctx context.Context, userID, date, hours string) (*domain.ExceptionDate, error)
	UpdateHours(ctx context.Context, userID string, id int64, hours string) error
	Delete(ctx context.Context, userID string, id int64) error
}
