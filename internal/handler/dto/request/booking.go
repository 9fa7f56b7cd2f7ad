package request

import (
	"staybooker/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	UnitID    uuid.UUID `json:"unit_id" binding:"required"`
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
}

func (r CreateBookingRequest) ToDateRange() (booking.DateRange, error) {
	return booking.ParseDateRange(r.StartDate, r.EndDate)
}
