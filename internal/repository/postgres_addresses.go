package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// PostgresAddressesRepo AddressesRepo implementation over the addresses table.
type PostgresAddressesRepo struct {
	db *sql.DB
}

func NewPostgresAddressesRepo(db *sql.DB) *PostgresAddressesRepo {
	return &PostgresAddressesRepo{db: db}
}

var _ AddressesRepo = (*PostgresAddressesRepo)(nil)

func (r *PostgresAddressesRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	query := `
		SELECT a.id, a.org_id, a.address, a.created_at
		FROM addresses a
		INNER JOIN profiles p ON a.org_id = p.org_id
		WHERE p.id = $1
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.OrgID, &a.Address, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}
	return addresses, nil
}

func (r *PostgresAddressesRepo) Create(ctx context.Context, userID, address string) (*domain.Address, error) {
	query := `
		INSERT INTO addresses (id, org_id, address)
		SELECT $1, p.org_id, $2
		FROM profiles p
		WHERE p.id = $3
		RETURNING id, org_id, address, created_at
	`
	var a domain.Address
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), address, userID).
		Scan(&a.ID, &a.OrgID, &a.Address, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("org for user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &a, nil
}

func (r *PostgresAddressesRepo) Delete(ctx context.Context, userID, addressID string) error {
	query := `
		DELETE FROM addresses a
		USING profiles p
		WHERE a.org_id = p.org_id AND p.id = $1 AND a.id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, addressID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("address: %w", ErrNotFound)
	}
	return nil
}
