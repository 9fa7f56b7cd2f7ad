package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type UnitView struct {
	ID            uuid.UUID `json:"id"`
	Rooms         int       `json:"rooms"`
	Type          string    `json:"type"`
	Floor         int       `json:"floor"`
	BaseCost      string    `json:"base_cost"`
	TotalCost     string    `json:"total_cost"`
	BaseCostCents int64     `json:"base_cost_cents"`
	TotalCents    int64     `json:"total_cost_cents"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

type UnitSearchResult struct {
	Items []UnitView `json:"items"`
	Total int64      `json:"total"`
}

// AvailabilityView carries the cached count of units free over one range.
type AvailabilityView struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Count     int64  `json:"count"`
}

type BookingView struct {
	ID        uuid.UUID `json:"id"`
	UnitID    uuid.UUID `json:"unit_id"`
	UserID    uuid.UUID `json:"user_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentView struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
