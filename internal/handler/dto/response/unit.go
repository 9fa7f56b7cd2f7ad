package response

import (
	"time"

	"staybooker/internal/domain/unit"
	"staybooker/internal/usecase/queries"

	"github.com/google/uuid"
)

type UnitResponse struct {
	ID            uuid.UUID `json:"id"`
	Rooms         int       `json:"rooms"`
	Type          string    `json:"type"`
	Floor         int       `json:"floor"`
	BaseCost      string    `json:"baseCost"`
	TotalCost     string    `json:"totalCost"`
	BaseCostCents int64     `json:"baseCostCents"`
	TotalCents    int64     `json:"totalCostCents"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UnitSearchResponse struct {
	Items []UnitResponse `json:"items"`
	Total int64          `json:"total"`
}

type AvailabilityResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Count     int64  `json:"count"`
}

func FromUnitView(v *queries.UnitView) *UnitResponse {
	return &UnitResponse{
		ID:            v.ID,
		Rooms:         v.Rooms,
		Type:          v.Type,
		Floor:         v.Floor,
		BaseCost:      v.BaseCost,
		TotalCost:     v.TotalCost,
		BaseCostCents: v.BaseCostCents,
		TotalCents:    v.TotalCents,
		Description:   v.Description,
		CreatedAt:     v.CreatedAt,
	}
}

func FromUnitSearchResult(r *queries.UnitSearchResult) *UnitSearchResponse {
	items := make([]UnitResponse, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, *FromUnitView(&r.Items[i]))
	}
	return &UnitSearchResponse{Items: items, Total: r.Total}
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{StartDate: v.StartDate, EndDate: v.EndDate, Count: v.Count}
}

// FromUnit renders a freshly created domain entity without a read-side
// round trip.
func FromUnit(u *unit.Unit) *UnitResponse {
	return &UnitResponse{
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
