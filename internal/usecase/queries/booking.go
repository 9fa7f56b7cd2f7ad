package queries

import (
	"context"

	"staybooker/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context) ([]BookingView, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	List(ctx context.Context) ([]booking.Booking, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	b, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toBookingView(b)
	return &view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context) ([]BookingView, error) {
	bookings, err := q.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, toBookingView(&bookings[i]))
	}
	return views, nil
}

func toBookingView(b *booking.Booking) BookingView {
	return BookingView{
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
