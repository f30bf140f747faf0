package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// PostgresProfilesRepo ProfilesRepo implementation over the profiles table.
type PostgresProfilesRepo struct {
	db *sql.DB
}

func NewPostgresProfilesRepo(db *sql.DB) *PostgresProfilesRepo {
	return &PostgresProfilesRepo{db: db}
}

var _ ProfilesRepo = (*PostgresProfilesRepo)(nil)

func (r *PostgresProfilesRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT id, org_id, created_at FROM profiles WHERE id = $1`

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.OrgID, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresProfilesRepo) OrgIDForUser(ctx context.Context, userID string) (string, error) {
	query := `SELECT org_id FROM profiles WHERE id = $1 LIMIT 1`

	var orgID string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("profile: %w", ErrNotFound)
		}
		return "", fmt.Errorf("failed to get org id: %w", err)
	}
	return orgID, nil
}

func (r *PostgresProfilesRepo) IDByOrgPhoneNumber(ctx context.Context, phoneNumber string) (string, error) {
	query := `
		SELECT profiles.id
		FROM profiles
		INNER JOIN orgs ON profiles.org_id = orgs.id
		WHERE orgs.phone_number = $1
		LIMIT 1
	`

	var id string
	err := r.db.QueryRowContext(ctx, query, phoneNumber).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("profile for phone number: %w", ErrNotFound)
		}
		return "", fmt.Errorf("failed to resolve customer id: %w", err)
	}
	return id, nil
}

// CreateOrgAndProfile creates the paired org+profile rows inside one
// transaction so a failed profile insert never leaves an orphaned org.
func (r *PostgresProfilesRepo) CreateOrgAndProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orgID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO orgs (id) VALUES ($1)`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to create org: %w", err)
	}

	var p domain.Profile
	err = tx.QueryRowContext(ctx,
		`INSERT INTO profiles (id, org_id) VALUES ($1, $2) RETURNING id, org_id, created_at`,
		userID, orgID,
	).Scan(&p.ID, &p.OrgID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return &p, nil
}
