package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// MemoryVehiclesRepo in-memory VehiclesRepo for tests. Needs a ProfilesRepo
// to resolve user -> org the way the SQL joins do.
type MemoryVehiclesRepo struct {
	mu       sync.RWMutex
	profiles ProfilesRepo
	vehicles map[string]*domain.Vehicle // vehicleID -> vehicle
}

func NewMemoryVehiclesRepo(profiles ProfilesRepo) *MemoryVehiclesRepo {
	return &MemoryVehiclesRepo{
		profiles: profiles,
		vehicles: map[string]*domain.Vehicle{},
	}
}

var _ VehiclesRepo = (*MemoryVehiclesRepo)(nil)

// PutVehicle seeds a vehicle directly (test helper).
func (r *MemoryVehiclesRepo) PutVehicle(v *domain.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	r.vehicles[v.ID] = v
}

func (r *MemoryVehiclesRepo) FindByVINOrPlate(_ context.Context, orgID, vin, plate string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := []*domain.Vehicle{}
	for _, v := range r.vehicles {
		if v.OrgID != orgID {
			continue
		}
		if (vin != "" && v.VINNumber.Valid && v.VINNumber.String == vin) ||
			(plate != "" && v.PlateNumber.Valid && v.PlateNumber.String == plate) {
			matches = append(matches, v)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("vehicle: %w", ErrNotFound)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	copied := *matches[0]
	return &copied, nil
}

func (r *MemoryVehiclesRepo) orgVehicles(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Vehicle{}
	for _, v := range r.vehicles {
		if v.OrgID == orgID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryVehiclesRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Vehicle, error) {
	all, err := r.orgVehicles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return []domain.Vehicle{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemoryVehiclesRepo) ListAllByUser(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	return r.orgVehicles(ctx, userID)
}

func (r *MemoryVehiclesRepo) Create(ctx context.Context, userID string, nv NewVehicle) (*domain.Vehicle, error) {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("org for user: %w", ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	v := &domain.Vehicle{
		ID:             uuid.NewString(),
		OrgID:          orgID,
		CreatedAt:      time.Now().UTC(),
		Status:         nullString(&nv.Status),
		Make:           nullString(&nv.Make),
		Model:          nullString(&nv.Model),
		Color:          nullString(&nv.Color),
		VINNumber:      nullString(&nv.VINNumber),
		PlateNumber:    nullString(&nv.PlateNumber),
		OwnerFirstName: nullString(&nv.OwnerFirstName),
		OwnerLastName:  nullString(&nv.OwnerLastName),
		Location:       nullString(&nv.Location),
	}
	v.Year.Int64 = int64(nv.Year)
	v.Year.Valid = true
	r.vehicles[v.ID] = v
	copied := *v
	return &copied, nil
}

func (r *MemoryVehiclesRepo) Delete(ctx context.Context, userID, vehicleID string) error {
	orgID, err := r.profiles.OrgIDForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("vehicle: %w", ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok || v.OrgID != orgID {
		return fmt.Errorf("vehicle: %w", ErrNotFound)
	}
	delete(r.vehicles, vehicleID)
	return nil
}
