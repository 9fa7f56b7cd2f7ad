// Package fake provides in-memory repository implementations for unit
// tests. They mirror the error kinds and concurrency semantics of the
// postgres-backed repositories closely enough to exercise the use case
// layer without a database.
package fake

import (
	"context"
	"sort"
	"sync"

	"staybooker/internal/domain/unit"
	"staybooker/internal/infra"

	"github.com/google/uuid"
)

type UnitRepository struct {
	mu    sync.RWMutex
	units map[uuid.UUID]unit.Unit
}

func NewUnitRepository() *UnitRepository {
	return &UnitRepository{units: make(map[uuid.UUID]unit.Unit)}
}

func (r *UnitRepository) Create(_ context.Context, u *unit.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[u.ID] = *u
	return nil
}

func (r *UnitRepository) FindByID(_ context.Context, id uuid.UUID) (*unit.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "unit not found")
	}
	return &u, nil
}

func (r *UnitRepository) Search(_ context.Context, criteria unit.SearchCriteria, sortSpec unit.Sort, offset, limit int) ([]unit.Unit, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]unit.Unit, 0, len(r.units))
	for _, u := range r.units {
		if criteria.Rooms != nil && u.Rooms != *criteria.Rooms {
			continue
		}
		if criteria.Type != nil && u.Type != *criteria.Type {
			continue
		}
		if criteria.Floor != nil && u.Floor != *criteria.Floor {
			continue
		}
		if criteria.MaxCostCents != nil && u.TotalCost.Cents() > *criteria.MaxCostCents {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].ID.String() < matched[j].ID.String()
		if sortSpec.By == "totalCost" {
			less = matched[i].TotalCost.Cents() < matched[j].TotalCost.Cents()
		}
		if !sortSpec.Ascending {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []unit.Unit{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
