package fake

import (
	"context"
	"sync"
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/infra"

	"github.com/google/uuid"
)

type BookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[uuid.UUID]booking.Booking)}
}

// CreateIfAvailable checks for an active overlapping booking on the same
// unit and inserts under one lock, matching the serialization the real
// repository gets from its row lock.
func (r *BookingRepository) CreateIfAvailable(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if existing.UnitID != b.UnitID {
			continue
		}
		if !existing.Status.IsActive() {
			continue
		}
		if existing.Dates.Overlaps(b.Dates) {
			return infra.NewRepoErr(infra.KindConflict, "unit already booked for an overlapping range")
		}
	}

	r.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to booking.Status, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = updatedAt
	r.bookings[id] = b
	return true, nil
}

func (r *BookingRepository) List(_ context.Context) ([]booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]booking.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, nil
}

// Put stores a booking directly, bypassing the availability check.
func (r *BookingRepository) Put(b *booking.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
}
