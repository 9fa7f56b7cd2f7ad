package unit

import (
	"time"

	"staybooker/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidType  = errs.New("invalid accommodation type")
	ErrInvalidRooms = errs.New("number of rooms must be positive")
	ErrInvalidFloor = errs.New("floor cannot be negative")
)

// Unit is an accommodation unit. Immutable from the booking engine's
// point of view; TotalCost is derived once at creation time.
type Unit struct {
	ID          uuid.UUID
	Rooms       int
	Type        AccommodationType
	Floor       int
	BaseCost    Money
	TotalCost   Money
	Description string
	CreatedAt   time.Time
}

func NewUnit(rooms int, accType AccommodationType, floor int, baseCost Money, description string, markup MarkupCalculator, now time.Time) (*Unit, error) {
	if rooms <= 0 {
		return nil, ErrInvalidRooms
	}
	if !accType.IsValid() {
		return nil, ErrInvalidType
	}
	if floor < 0 {
		return nil, ErrInvalidFloor
	}

	return &Unit{
		ID:          uuid.New(),
		Rooms:       rooms,
		Type:        accType,
		Floor:       floor,
		BaseCost:    baseCost,
		TotalCost:   markup.TotalCost(baseCost),
		Description: description,
		CreatedAt:   now,
	}, nil
}
