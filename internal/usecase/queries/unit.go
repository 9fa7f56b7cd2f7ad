package queries

import (
	"context"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/unit"

	"github.com/google/uuid"
)

const defaultSearchLimit = 50

type UnitQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UnitView, error)
	Search(ctx context.Context, criteria unit.SearchCriteria, sort unit.Sort, offset, limit int) (*UnitSearchResult, error)
	AvailableCount(ctx context.Context, dates booking.DateRange) (*AvailabilityView, error)
}

type UnitViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error)
	Search(ctx context.Context, criteria unit.SearchCriteria, sort unit.Sort, offset, limit int) ([]unit.Unit, int64, error)
}

// AvailabilityReader is the cached read path for availability counts.
type AvailabilityReader interface {
	GetCount(ctx context.Context, dates booking.DateRange) (int64, error)
}

type unitQueriesImpl struct {
	repo         UnitViewRepo
	availability AvailabilityReader
}

func NewUnitQueries(repo UnitViewRepo, availability AvailabilityReader) UnitQueries {
	return &unitQueriesImpl{repo: repo, availability: availability}
}

func (q *unitQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*UnitView, error) {
	u, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toUnitView(u)
	return &view, nil
}

func (q *unitQueriesImpl) Search(ctx context.Context, criteria unit.SearchCriteria, sort unit.Sort, offset, limit int) (*UnitSearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	units, total, err := q.repo.Search(ctx, criteria, sort, offset, limit)
	if err != nil {
		return nil, err
	}

	items := make([]UnitView, 0, len(units))
	for i := range units {
		items = append(items, toUnitView(&units[i]))
	}
	return &UnitSearchResult{Items: items, Total: total}, nil
}

func (q *unitQueriesImpl) AvailableCount(ctx context.Context, dates booking.DateRange) (*AvailabilityView, error) {
	count, err := q.availability.GetCount(ctx, dates)
	if err != nil {
		return nil, err
	}
	return &AvailabilityView{
		StartDate: dates.StartISO(),
		EndDate:   dates.EndISO(),
		Count:     count,
	}, nil
}

func toUnitView(u *unit.Unit) UnitView {
	return UnitView{
		ID:            u.ID,
		Rooms:         u.Rooms,
		Type:          u.Type.String(),
		Floor:         u.Floor,
		BaseCost:      u.BaseCost.String(),
		TotalCost:     u.TotalCost.String(),
		BaseCostCents: u.BaseCost.Cents(),
		TotalCents:    u.TotalCost.Cents(),
		Description:   u.Description,
		CreatedAt:     u.CreatedAt,
	}
}
