package domain

import (
	"database/sql"
	"time"
)

// Vehicle is an impounded vehicle record (vehicles table). Looked up during
// calls by VIN or plate; staff create and delete, never update in place.
type Vehicle struct {
	ID        string    `db:"id"`         // UUID, PRIMARY KEY
	OrgID     string    `db:"org_id"`     // UUID, NOT NULL, FK orgs.id
	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL

	Status         sql.NullString `db:"status"`           // TEXT, nullable
	Make           sql.NullString `db:"make"`             // TEXT, nullable
	Model          sql.NullString `db:"model"`            // TEXT, nullable
	Year           sql.NullInt64  `db:"year"`             // INTEGER, nullable
	Color          sql.NullString `db:"color"`            // TEXT, nullable
	VINNumber      sql.NullString `db:"vin_number"`       // TEXT, nullable
	PlateNumber    sql.NullString `db:"plate_number"`     // TEXT, nullable
	OwnerFirstName sql.NullString `db:"owner_first_name"` // TEXT, nullable
	OwnerLastName  sql.NullString `db:"owner_last_name"`  // TEXT, nullable
	Location       sql.NullString `db:"location"`         // TEXT, nullable
}

// Address is a free-text lot address entry (addresses table).
type Address struct {
	ID        string    `db:"id"`         // UUID, PRIMARY KEY
	OrgID     string    `db:"org_id"`     // UUID, NOT NULL, FK orgs.id
	Address   string    `db:"address"`    // TEXT, NOT NULL
	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}

// ExceptionDate overrides the weekly default hours for one literal date
// string (exception_dates table). Date is operator-entered text, matched
// exactly, never parsed as ISO.
type ExceptionDate struct {
	ID    int64  `db:"id"`     // SERIAL, PRIMARY KEY
	OrgID string `db:"org_id"` // UUID, NOT NULL, FK orgs.id
	Date  string `db:"date"`   // TEXT, NOT NULL
	Hours string `db:"hours"`  // TEXT, NOT NULL
}
