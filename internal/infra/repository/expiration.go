package repository

import (
	"context"
	"time"

	"staybooker/internal/domain/payment"
	"staybooker/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpirationRepository struct {
	pool *pgxpool.Pool
}

func NewExpirationRepository(pool *pgxpool.Pool) *ExpirationRepository {
	return &ExpirationRepository{pool: pool}
}

func (r *ExpirationRepository) Create(ctx context.Context, e *payment.Expiration) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payment_expirations (id, payment_id, expires_at) VALUES ($1, $2, $3)`,
		e.ID, e.PaymentID, e.ExpiresAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert payment expiration", err)
	}
	return nil
}

// DeleteByPaymentID removes the expiration row for the payment and
// reports whether a row was actually deleted. The single conditional
// delete is the atomic claim between settlement and the sweep: at most
// one caller observes true.
func (r *ExpirationRepository) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM payment_expirations WHERE payment_id = $1`, paymentID)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to delete payment expiration", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindAllBefore returns every expiration strictly before the cutoff.
func (r *ExpirationRepository) FindAllBefore(ctx context.Context, cutoff time.Time) ([]payment.Expiration, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, payment_id, expires_at FROM payment_expirations
		 WHERE expires_at < $1 ORDER BY expires_at`, cutoff)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list overdue expirations", err)
	}
	defer rows.Close()

	var expirations []payment.Expiration
	for rows.Next() {
		var e payment.Expiration
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan expiration", err)
		}
		expirations = append(expirations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read expirations", err)
	}
	return expirations, nil
}
