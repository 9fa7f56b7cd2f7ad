package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// activeStatusList renders the booking statuses that block a unit as a
// SQL IN list, so the predicates below stay in sync with the domain.
var activeStatusList = func() string {
	statuses := booking.ActiveStatuses()
	quoted := make([]string, len(statuses))
	for i, s := range statuses {
		quoted[i] = "'" + s.String() + "'"
	}
	return strings.Join(quoted, ", ")
}()

// overlapCondition matches active bookings whose range overlaps
// [$2, $3] for unit $1: existing start within the range, existing end
// within the range, or existing range containing it.
var overlapCondition = `
	unit_id = $1
	AND status IN (` + activeStatusList + `)
	AND (
		start_date BETWEEN $2 AND $3
		OR end_date BETWEEN $2 AND $3
		OR (start_date <= $2 AND end_date >= $3)
	)`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateIfAvailable inserts the booking unless an active booking for the
// same unit overlaps its dates.
//
// The conflict check and the insert run in one transaction that first
// takes a row lock on the unit (SELECT ... FOR UPDATE), serializing
// concurrent attempts on the same unit. Two racing requests for
// overlapping ranges therefore cannot both pass the check: the second
// blocks on the lock and sees the first one's committed row.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *booking.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var unitID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM units WHERE id = $1 FOR UPDATE`, b.UnitID).Scan(&unitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.NewRepoErr(infra.KindNotFound, "unit not found")
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to lock unit", err)
	}

	var conflicting uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM bookings WHERE`+overlapCondition+` LIMIT 1`,
		b.UnitID, b.Dates.Start(), b.Dates.End(),
	).Scan(&conflicting)
	switch {
	case err == nil:
		return infra.NewRepoErr(infra.KindConflict, "unit is not available for the chosen date range")
	case !errors.Is(err, pgx.ErrNoRows):
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to check booking conflicts", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, unit_id, user_id, start_date, end_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UnitID, b.UserID, b.Dates.Start(), b.Dates.End(), b.Status.String(), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert booking", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to commit booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, unit_id, user_id, start_date, end_date, status, created_at, updated_at
		 FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to get booking", err)
	}
	return b, nil
}

// UpdateStatusFrom is a compare-and-swap on the booking status. It
// reports false when the row was not in the expected status, which keeps
// terminal bookings terminal under racing writers.
func (r *BookingRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to booking.Status, updatedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(), updatedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]booking.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, unit_id, user_id, start_date, end_date, status, created_at, updated_at
		 FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read bookings", err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		b          booking.Booking
		start, end time.Time
		status     string
	)
	if err := row.Scan(&b.ID, &b.UnitID, &b.UserID, &start, &end, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	dates, err := booking.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	b.Dates = dates
	b.Status = booking.Status(status)
	return &b, nil
}
