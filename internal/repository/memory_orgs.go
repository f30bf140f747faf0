package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// MemoryOrgsRepo in-memory OrgsRepo+ProfilesRepo for tests and local runs
// without a database. No durability, no constraint checks beyond the lookups
// the handlers rely on.
type MemoryOrgsRepo struct {
	mu       sync.RWMutex
	orgs     map[string]*domain.Org     // orgID -> org
	profiles map[string]*domain.Profile // userID -> profile
}

func NewMemoryOrgsRepo() *MemoryOrgsRepo {
	return &MemoryOrgsRepo{
		orgs:     map[string]*domain.Org{},
		profiles: map[string]*domain.Profile{},
	}
}

var (
	_ OrgsRepo     = (*MemoryOrgsRepo)(nil)
	_ ProfilesRepo = (*MemoryOrgsRepo)(nil)
)

// PutOrg seeds an org directly (test helper).
func (r *MemoryOrgsRepo) PutOrg(o *domain.Org) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	r.orgs[o.ID] = o
}

// PutProfile seeds a profile directly (test helper).
func (r *MemoryOrgsRepo) PutProfile(p *domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
}

func (r *MemoryOrgsRepo) GetByPhoneNumber(_ context.Context, phoneNumber string) (*domain.Org, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orgs {
		if o.PhoneNumber.Valid && o.PhoneNumber.String == phoneNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("org: %w", ErrNotFound)
}

func (r *MemoryOrgsRepo) GetByID(_ context.Context, orgID string) (*domain.Org, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orgs[orgID]
	if !ok {
		return nil, fmt.Errorf("org: %w", ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

func (r *MemoryOrgsRepo) GetByUserID(ctx context.Context, userID string) (*domain.Org, error) {
	orgID, err := r.OrgIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orgID)
}

func (r *MemoryOrgsRepo) set(userID string, apply func(*domain.Org)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("org for user: %w", ErrNotFound)
	}
	o, ok := r.orgs[p.OrgID]
	if !ok {
		return fmt.Errorf("org for user: %w", ErrNotFound)
	}
	apply(o)
	return nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func (r *MemoryOrgsRepo) SetAgentName(_ context.Context, userID, value string) error {
	return r.set(userID, func(o *domain.Org) { o.AgentName = sql.NullString{String: value, Valid: true} })
}

func (r *MemoryOrgsRepo) SetCompanyName(_ context.Context, userID, value string) error {
	return r.set(userID, func(o *domain.Org) { o.CompanyName = sql.NullString{String: value, Valid: true} })
}

func (r *MemoryOrgsRepo) SetDefaultAddress(_ context.Context, userID, value string) error {
	return r.set(userID, func(o *domain.Org) { o.DefaultAddress = sql.NullString{String: value, Valid: true} })
}

func (r *MemoryOrgsRepo) SetTimeZone(_ context.Context, userID, value string) error {
	return r.set(userID, func(o *domain.Org) { o.TimeZone = sql.NullString{String: value, Valid: true} })
}

func (r *MemoryOrgsRepo) SetDefaultHours(_ context.Context, userID, value string) error {
	return r.set(userID, func(o *domain.Org) {
		o.DefaultHoursOfOperation = sql.NullString{String: value, Valid: true}
	})
}

func (r *MemoryOrgsRepo) SetDocumentsNeeded(_ context.Context, userID string, value *string) error {
	return r.set(userID, func(o *domain.Org) { o.DocumentsNeeded = nullString(value) })
}

func (r *MemoryOrgsRepo) SetAuctionTriggers(_ context.Context, userID string, value *string) error {
	return r.set(userID, func(o *domain.Org) { o.AuctionTriggers = nullString(value) })
}

func (r *MemoryOrgsRepo) SetCostToReleaseShort(_ context.Context, userID string, value *string) error {
	return r.set(userID, func(o *domain.Org) { o.CostToReleaseShort = nullString(value) })
}

func (r *MemoryOrgsRepo) SetCostToReleaseLong(_ context.Context, userID string, value *string) error {
	return r.set(userID, func(o *domain.Org) { o.CostToReleaseLong = nullString(value) })
}

func (r *MemoryOrgsRepo) SetPhoneBinding(_ context.Context, userID, phoneNumber, phoneID string) error {
	return r.set(userID, func(o *domain.Org) {
		o.PhoneNumber = sql.NullString{String: phoneNumber, Valid: true}
		o.PhoneID = sql.NullString{String: phoneID, Valid: true}
	})
}

func (r *MemoryOrgsRepo) GetPhoneBinding(ctx context.Context, userID string) (string, string, error) {
	o, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if !o.PhoneNumber.Valid || o.PhoneNumber.String == "" {
		return "", "", fmt.Errorf("phone number for org: %w", ErrNotFound)
	}
	return o.PhoneNumber.String, o.PhoneID.String, nil
}

// --- ProfilesRepo ---

func (r *MemoryOrgsRepo) Get(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (r *MemoryOrgsRepo) OrgIDForUser(_ context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return "", fmt.Errorf("profile: %w", ErrNotFound)
	}
	return p.OrgID, nil
}

func (r *MemoryOrgsRepo) IDByOrgPhoneNumber(_ context.Context, phoneNumber string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		o, ok := r.orgs[p.OrgID]
		if ok && o.PhoneNumber.Valid && o.PhoneNumber.String == phoneNumber {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("profile for phone number: %w", ErrNotFound)
}

func (r *MemoryOrgsRepo) CreateOrgAndProfile(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	org := &domain.Org{ID: uuid.NewString(), CreatedAt: now}
	p := &domain.Profile{ID: userID, OrgID: org.ID, CreatedAt: now}
	r.orgs[org.ID] = org
	r.profiles[userID] = p
	copied := *p
	return &copied, nil
}
