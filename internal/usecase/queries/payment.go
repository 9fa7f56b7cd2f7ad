package queries

import (
	"context"

	"staybooker/internal/domain/payment"

	"github.com/google/uuid"
)

type PaymentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	List(ctx context.Context) ([]PaymentView, error)
}

type PaymentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	List(ctx context.Context) ([]payment.Payment, error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	p, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toPaymentView(p)
	return &view, nil
}

func (q *paymentQueriesImpl) List(ctx context.Context) ([]PaymentView, error) {
	payments, err := q.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]PaymentView, 0, len(payments))
	for i := range payments {
		views = append(views, toPaymentView(&payments[i]))
	}
	return views, nil
}

func toPaymentView(p *payment.Payment) PaymentView {
	return PaymentView{
		ID:          p.ID,
		BookingID:   p.BookingID,
		Amount:      p.Amount.String(),
		AmountCents: p.Amount.Cents(),
		Status:      p.Status.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
