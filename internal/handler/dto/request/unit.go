package request

import (
	"strings"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/unit"
	"staybooker/internal/usecase/commands"
	"staybooker/internal/pkg/errs"
)

var ErrUnknownAccommodationType = errs.New("unknown accommodation type")

type AddUnitRequest struct {
	Rooms         int    `json:"rooms" binding:"required,gt=0"`
	Type          string `json:"type" binding:"required"`
	Floor         int    `json:"floor" binding:"gte=0"`
	BaseCostCents int64  `json:"base_cost_cents" binding:"required,gt=0"`
	Description   string `json:"description"`
}

func (r AddUnitRequest) ToParams() (commands.AddUnitParams, error) {
	accType := unit.AccommodationType(strings.ToUpper(strings.TrimSpace(r.Type)))
	if !accType.IsValid() {
		return commands.AddUnitParams{}, ErrUnknownAccommodationType
	}
	baseCost, err := unit.NewMoney(r.BaseCostCents)
	if err != nil {
		return commands.AddUnitParams{}, err
	}
	return commands.AddUnitParams{
		Rooms:       r.Rooms,
		Type:        accType,
		Floor:       r.Floor,
		BaseCost:    baseCost,
		Description: strings.TrimSpace(r.Description),
	}, nil
}

type SearchUnitsRequest struct {
	Rooms        *int    `form:"rooms"`
	Type         *string `form:"type"`
	Floor        *int    `form:"floor"`
	MaxCostCents *int64  `form:"max_cost_cents"`
	StartDate    *string `form:"start_date"`
	EndDate      *string `form:"end_date"`
	SortBy       string  `form:"sort_by,default=id"`
	Order        string  `form:"order,default=asc"`
	Offset       int     `form:"offset,default=0"`
	Limit        int     `form:"limit,default=50"`
}

func (r SearchUnitsRequest) ToCriteria() (unit.SearchCriteria, unit.Sort, error) {
	criteria := unit.SearchCriteria{
		Rooms:        r.Rooms,
		Floor:        r.Floor,
		MaxCostCents: r.MaxCostCents,
	}

	if r.Type != nil {
		accType := unit.AccommodationType(strings.ToUpper(strings.TrimSpace(*r.Type)))
		if !accType.IsValid() {
			return unit.SearchCriteria{}, unit.Sort{}, ErrUnknownAccommodationType
		}
		criteria.Type = &accType
	}

	// The date filter only makes sense as a pair.
	if r.StartDate != nil && r.EndDate != nil {
		dates, err := booking.ParseDateRange(*r.StartDate, *r.EndDate)
		if err != nil {
			return unit.SearchCriteria{}, unit.Sort{}, err
		}
		criteria.Dates = &dates
	} else if r.StartDate != nil || r.EndDate != nil {
		return unit.SearchCriteria{}, unit.Sort{}, booking.ErrInvalidDateRange
	}

	sort := unit.Sort{
		By:        r.SortBy,
		Ascending: !strings.EqualFold(r.Order, "desc"),
	}
	return criteria, sort, nil
}

type AvailabilityRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r AvailabilityRequest) ToDateRange() (booking.DateRange, error) {
	return booking.ParseDateRange(r.StartDate, r.EndDate)
}
