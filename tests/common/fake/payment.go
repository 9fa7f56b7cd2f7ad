package fake

import (
	"context"
	"sync"
	"time"

	"staybooker/internal/domain/payment"
	"staybooker/internal/infra"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	mu       sync.Mutex
	payments map[uuid.UUID]payment.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[uuid.UUID]payment.Payment)}
}

func (r *PaymentRepository) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to payment.Status, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = updatedAt
	r.payments[id] = p
	return true, nil
}

func (r *PaymentRepository) List(_ context.Context) ([]payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]payment.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, p)
	}
	return out, nil
}

type ExpirationRepository struct {
	mu          sync.Mutex
	expirations map[uuid.UUID]payment.Expiration // keyed by payment ID
}

func NewExpirationRepository() *ExpirationRepository {
	return &ExpirationRepository{expirations: make(map[uuid.UUID]payment.Expiration)}
}

func (r *ExpirationRepository) Create(_ context.Context, e *payment.Expiration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expirations[e.PaymentID] = *e
	return nil
}

// DeleteByPaymentID is the claim both settlement and sweep race for:
// the map delete under one lock guarantees a single winner.
func (r *ExpirationRepository) DeleteByPaymentID(_ context.Context, paymentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expirations[paymentID]; !ok {
		return false, nil
	}
	delete(r.expirations, paymentID)
	return true, nil
}

func (r *ExpirationRepository) FindAllBefore(_ context.Context, cutoff time.Time) ([]payment.Expiration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]payment.Expiration, 0)
	for _, e := range r.expirations {
		if e.ExpiresAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len reports how many expirations remain unclaimed.
func (r *ExpirationRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expirations)
}
