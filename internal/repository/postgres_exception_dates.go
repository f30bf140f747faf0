package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// PostgresExceptionDatesRepo ExceptionDatesRepo implementation over the
// exception_dates table.
type PostgresExceptionDatesRepo struct {
	db *sql.DB
}

func NewPostgresExceptionDatesRepo(db *sql.DB) *PostgresExceptionDatesRepo {
	return &PostgresExceptionDatesRepo{db: db}
}

var _ ExceptionDatesRepo = (*PostgresExceptionDatesRepo)(nil)

func (r *PostgresExceptionDatesRepo) GetByOrgAndDate(ctx context.Context, orgID, date string) (*domain.ExceptionDate, error) {
	query := `
		SELECT id, org_id, date, hours
		FROM exception_dates
		WHERE org_id = $1 AND date = $2
		LIMIT 1
	`
	var ed domain.ExceptionDate
	err := r.db.QueryRowContext(ctx, query, orgID, date).
		Scan(&ed.ID, &ed.OrgID, &ed.Date, &ed.Hours)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("exception date: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get exception date: %w", err)
	}
	return &ed, nil
}

func (r *PostgresExceptionDatesRepo) ListByUser(ctx context.Context, userID string) ([]domain.ExceptionDate, error) {
	query := `
		SELECT ed.id, ed.org_id, ed.date, ed.hours
		FROM exception_dates ed
		INNER JOIN profiles p ON ed.org_id = p.org_id
		WHERE p.id = $1
		ORDER BY ed.date
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exception dates: %w", err)
	}
	defer rows.Close()

	dates := []domain.ExceptionDate{}
	for rows.Next() {
		var ed domain.ExceptionDate
		if err := rows.Scan(&ed.ID, &ed.OrgID, &ed.Date, &ed.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan exception date: %w", err)
		}
		dates = append(dates, ed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exception dates: %w", err)
	}
	return dates, nil
}

func (r *PostgresExceptionDatesRepo) Create(ctx context.Context, userID, date, hours string) (*domain.ExceptionDate, error) {
	query := `
		INSERT INTO exception_dates (date, hours, org_id)
		SELECT $1, $2, p.org_id
		FROM profiles p
		WHERE p.id = $3
		RETURNING id, org_id, date, hours
	`
	var ed domain.ExceptionDate
	err := r.db.QueryRowContext(ctx, query, date, hours, userID).
		Scan(&ed.ID, &ed.OrgID, &ed.Date, &ed.Hours)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("org for user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create exception date: %w", err)
	}
	return &ed, nil
}

func (r *PostgresExceptionDatesRepo) UpdateHours(ctx context.Context, userID string, id int64, hours string) error {
	query := `
		UPDATE exception_dates ed
		SET hours = $1
		FROM profiles p
		WHERE ed.org_id = p.org_id AND p.id = $2 AND ed.id = $3
	`
	res, err := r.db.ExecContext(ctx, query, hours, userID, id)
	if err != nil {
		return fmt.Errorf("failed to update exception date: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exception date: %w", ErrNotFound)
	}
	return nil
}

func (r *PostgresExceptionDatesRepo) Delete(ctx context.Context, userID string, id int64) error {
	query := `
		DELETE FROM exception_dates ed
		USING profiles p
		WHERE ed.org_id = p.org_id AND p.id = $1 AND ed.id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete exception date: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exception date: %w", ErrNotFound)
	}
	return nil
}
