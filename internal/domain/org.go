package domain

import (
	"database/sql"
	"time"
)

// Org is one tenant (a towing/impound lot), backed by the orgs table.
// Content columns are operator-edited free text and may be NULL until the
// lot finishes onboarding.
type Org struct {
	ID        string    `db:"id"`         // UUID, PRIMARY KEY
	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL

	AgentName   sql.NullString `db:"agent_name"`   // TEXT, nullable
	CompanyName sql.NullString `db:"company_name"` // TEXT, nullable

	// Exactly one "* <Weekday>: <hours>" line per weekday, Monday-Sunday.
	DefaultHoursOfOperation sql.NullString `db:"default_hours_of_operation"` // TEXT, nullable

	// Markdown bullet lists ("* " or "- " per non-blank line).
	DocumentsNeeded    sql.NullString `db:"documents_needed"`      // TEXT, nullable
	CostToReleaseShort sql.NullString `db:"cost_to_release_short"` // TEXT, nullable
	CostToReleaseLong  sql.NullString `db:"cost_to_release_long"`  // TEXT, nullable
	AuctionTriggers    sql.NullString `db:"auction_triggers"`      // TEXT, nullable

	DefaultAddress sql.NullString `db:"default_address"` // TEXT, nullable
	TimeZone       sql.NullString `db:"time_zone"`       // TEXT, nullable, IANA name

	// Telephony-provider binding, attached after provisioning.
	PhoneNumber sql.NullString `db:"phone_number"` // TEXT, nullable, stored verbatim
	PhoneID     sql.NullString `db:"phone_id"`     // TEXT, nullable, provider resource id
}

// Profile links an identity-provider user to its Org. profiles.id equals the
// auth user's uuid; one profile per org in current usage.
type Profile struct {
	ID        string    `db:"id"`         // UUID, PRIMARY KEY (= auth user id)
	OrgID     string    `db:"org_id"`     // UUID, NOT NULL, FK orgs.id
	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
