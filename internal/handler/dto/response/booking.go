package response

import (
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID        uuid.UUID `json:"id"`
	UnitID    uuid.UUID `json:"unitId"`
	UserID    uuid.UUID `json:"userId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:        v.ID,
		UnitID:    v.UnitID,
		UserID:    v.UserID,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
		Status:    v.Status,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        b.ID,
		UnitID:    b.UnitID,
		UserID:    b.UserID,
		StartDate: b.Dates.StartISO(),
		EndDate:   b.Dates.EndISO(),
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
