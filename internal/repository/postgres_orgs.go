package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// PostgresOrgsRepo OrgsRepo implementation over the orgs table.
type PostgresOrgsRepo struct {
	db *sql.DB
}

func NewPostgresOrgsRepo(db *sql.DB) *PostgresOrgsRepo {
	return &PostgresOrgsRepo{db: db}
}

var _ OrgsRepo = (*PostgresOrgsRepo)(nil)

const orgColumns = `
	id,
	created_at,
	agent_name,
	company_name,
	default_hours_of_operation,
	documents_needed,
	cost_to_release_short,
	cost_to_release_long,
	auction_triggers,
	default_address,
	time_zone,
	phone_number,
	phone_id
`

func scanOrg(row *sql.Row) (*domain.Org, error) {
	var o domain.Org
	err := row.Scan(
		&o.ID,
		&o.CreatedAt,
		&o.AgentName,
		&o.CompanyName,
		&o.DefaultHoursOfOperation,
		&o.DocumentsNeeded,
		&o.CostToReleaseShort,
		&o.CostToReleaseLong,
		&o.AuctionTriggers,
		&o.DefaultAddress,
		&o.TimeZone,
		&o.PhoneNumber,
		&o.PhoneID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("org: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan org: %w", err)
	}
	return &o, nil
}

func (r *PostgresOrgsRepo) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Org, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs WHERE phone_number = $1 LIMIT 1`
	return scanOrg(r.db.QueryRowContext(ctx, query, phoneNumber))
}

func (r *PostgresOrgsRepo) GetByID(ctx context.Context, orgID string) (*domain.Org, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs WHERE id = $1`
	return scanOrg(r.db.QueryRowContext(ctx, query, orgID))
}

func (r *PostgresOrgsRepo) GetByUserID(ctx context.Context, userID string) (*domain.Org, error) {
	query := `
		SELECT
			o.id, o.created_at, o.agent_name, o.company_name,
			o.default_hours_of_operation, o.documents_needed,
			o.cost_to_release_short, o.cost_to_release_long,
			o.auction_triggers, o.default_address, o.time_zone,
			o.phone_number, o.phone_id
		FROM orgs o
		INNER JOIN profiles p ON o.id = p.org_id
		WHERE p.id = $1
	`
	return scanOrg(r.db.QueryRowContext(ctx, query, userID))
}

// setColumn updates one org column through the profile join. The column name
// is always a compile-time constant supplied by the exported setters, never
// caller input.
func (r *PostgresOrgsRepo) setColumn(ctx context.Context, userID, column string, value any) error {
	query := fmt.Sprintf(`
		UPDATE orgs
		SET %s = $1
		FROM profiles
		WHERE orgs.id = profiles.org_id AND profiles.id = $2
	`, column)

	res, err := r.db.ExecContext(ctx, query, value, userID)
	if err != nil {
		return fmt.Errorf("failed to update orgs.%s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("org for user: %w", ErrNotFound)
	}
	return nil
}

func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func (r *PostgresOrgsRepo) SetAgentName(ctx context.Context, userID, value string) error {
	return r.setColumn(ctx, userID, "agent_name", value)
}

func (r *PostgresOrgsRepo) SetCompanyName(ctx context.Context, userID, value string) error {
	return r.setColumn(ctx, userID, "company_name", value)
}

func (r *PostgresOrgsRepo) SetDefaultAddress(ctx context.Context, userID, value string) error {
	return r.setColumn(ctx, userID, "default_address", value)
}

func (r *PostgresOrgsRepo) SetTimeZone(ctx context.Context, userID, value string) error {
	return r.setColumn(ctx, userID, "time_zone", value)
}

func (r *PostgresOrgsRepo) SetDefaultHours(ctx context.Context, userID, value string) error {
	return r.setColumn(ctx, userID, "default_hours_of_operation", value)
}

func (r *PostgresOrgsRepo) SetDocumentsNeeded(ctx context.Context, userID string, value *string) error {
	return r.setColumn(ctx, userID, "documents_needed", nullable(value))
}

func (r *PostgresOrgsRepo) SetAuctionTriggers(ctx context.Context, userID string, value *string) error {
	return r.setColumn(ctx, userID, "auction_triggers", nullable(value))
}

func (r *PostgresOrgsRepo) SetCostToReleaseShort(ctx context.Context, userID string, value *string) error {
	return r.setColumn(ctx, userID, "cost_to_release_short", nullable(value))
}

func (r *PostgresOrgsRepo) SetCostToReleaseLong(ctx context.Context, userID string, value *string) error {
	return r.setColumn(ctx, userID, "cost_to_release_long", nullable(value))
}

func (r *PostgresOrgsRepo) SetPhoneBinding(ctx context.Context, userID, phoneNumber, phoneID string) error {
	query := `
		UPDATE orgs
		SET phone_number = $1, phone_id = $2
		FROM profiles
		WHERE orgs.id = profiles.org_id AND profiles.id = $3
	`
	res, err := r.db.ExecContext(ctx, query, phoneNumber, phoneID, userID)
	if err != nil {
		return fmt.Errorf("failed to update phone binding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("org for user: %w", ErrNotFound)
	}
	return nil
}

func (r *PostgresOrgsRepo) GetPhoneBinding(ctx context.Context, userID string) (string, string, error) {
	query := `
		SELECT orgs.phone_number, orgs.phone_id
		FROM orgs
		JOIN profiles ON orgs.id = profiles.org_id
		WHERE profiles.id = $1
		LIMIT 1
	`
	var number, id sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&number, &id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", "", fmt.Errorf("org for user: %w", ErrNotFound)
		}
		return "", "", fmt.Errorf("failed to get phone binding: %w", err)
	}
	if !number.Valid || number.String == "" {
		return "", "", fmt.Errorf("phone number for org: %w", ErrNotFound)
	}
	return number.String, id.String, nil
}
