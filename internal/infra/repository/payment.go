package repository

import (
	"context"
	"errors"
	"time"

	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (id, booking_id, amount_cents, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.BookingID, p.Amount.Cents(), p.Status.String(), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, booking_id, amount_cents, status, created_at, updated_at
		 FROM payments WHERE id = $1`, id)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to get payment", err)
	}
	return p, nil
}

// UpdateStatusFrom is a compare-and-swap on the payment status,
// mirroring BookingRepository.UpdateStatusFrom.
func (r *PaymentRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to payment.Status, updatedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(), updatedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to update payment status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]payment.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, booking_id, amount_cents, status, created_at, updated_at
		 FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list payments", err)
	}
	defer rows.Close()

	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan payment", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read payments", err)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		p      payment.Payment
		cents  int64
		status string
	)
	if err := row.Scan(&p.ID, &p.BookingID, &cents, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Amount = unit.MustMoney(cents)
	p.Status = payment.Status(status)
	return &p, nil
}
