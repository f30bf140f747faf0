package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// MemoryExceptionDatesRepo in-memory ExceptionDatesRepo for tests.
type MemoryExceptionDatesRepo struct {
	mu       sync.RWMutex
	profiles ProfilesRepo
	nextID   int64
	dates    map[int64]*domain.ExceptionDate
}

func NewMemoryExceptionDatesRepo(profiles ProfilesRepo) *MemoryExceptionDatesRepo {
	return &MemoryExceptionDatesRepo{
		profiles: profiles,
		nextID:   1,
		dates:    map[int64]*domain.ExceptionDate{},
	}
}

var _ ExceptionDatesRepo = (*MemoryExceptionDatesRepo)(nil)

// PutExceptionDate seeds an override directly (test helper).
func (r *MemoryExceptionDatesRepo) PutExceptionDate(orgID, date, hours string) *domain.ExceptionDate {
	r.mu.Lock()
	defer r.mu.Unlock()
	ed := &domain.ExceptionDate{ID: r.nextID, OrgID: orgID, Date: date, Hours: hours}
	r.dates[ed.ID] = ed
	r.nextID++
	copied := *ed
	return &copied
}

func (r *MemoryExceptionDatesRepo) GetByOrgAndDate(_ context.Context, orgID, date string) (*domain.ExceptionDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ed := range r.dates {
		if ed.OrgID == orgID && ed.Date == date {
			copied := *ed
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("exception date: %w", ErrNotFound)
}

func (r *MemoryExceptionDatesRepo) ListByUser(ctx context.Context, userID string) ([]domain.ExceptionDate, error) {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.ExceptionDate{}
	for _, ed := range r.dates {
		if ed.OrgID == orgID {
			out = append(out, *ed)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *MemoryExceptionDatesRepo) Create(ctx context.Context, userID, date, hours string) (*domain.ExceptionDate, error) {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("org for user: %w", ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ed := &domain.ExceptionDate{ID: r.nextID, OrgID: orgID, Date: date, Hours: hours}
	r.dates[ed.ID] = ed
	r.nextID++
	copied := *ed
	return &copied, nil
}

func (r *MemoryExceptionDatesRepo) UpdateHours(ctx context.Context, userID string, id int64, hours string) error {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("exception date: %w", ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ed, ok := r.dates[id]
	if !ok || ed.OrgID != orgID {
		return fmt.Errorf("exception date: %w", ErrNotFound)
	}
	ed.Hours = hours
	return nil
}

func (r *MemoryExceptionDatesRepo) Delete(ctx context.Context, userID string, id int64) error {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("exception date: %w", ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ed, ok := r.dates[id]
	if !ok || ed.OrgID != orgID {
		return fmt.Errorf("exception date: %w", ErrNotFound)
	}
	delete(r.dates, id)
	return nil
}
