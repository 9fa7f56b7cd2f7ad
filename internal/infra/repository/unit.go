package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/unit"
	"staybooker/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// availabilityPredicate excludes units with an active booking overlapping
// the requested range. The three OR branches cover existing-start-within,
// existing-end-within and full containment of the requested range.
var availabilityPredicate = `
	NOT EXISTS (
		SELECT 1 FROM bookings b
		WHERE b.unit_id = u.id
		  AND b.status IN (` + activeStatusList + `)
		  AND (
			b.start_date BETWEEN $%[1]d AND $%[2]d
			OR b.end_date BETWEEN $%[1]d AND $%[2]d
			OR (b.start_date <= $%[1]d AND b.end_date >= $%[2]d)
		  )
	)`

var sortColumns = map[string]string{
	"id":        "id",
	"rooms":     "rooms",
	"floor":     "floor",
	"type":      "type",
	"baseCost":  "base_cost_cents",
	"totalCost": "total_cost_cents",
	"createdAt": "created_at",
}

type UnitRepository struct {
	pool *pgxpool.Pool
}

func NewUnitRepository(pool *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{pool: pool}
}

func (r *UnitRepository) Create(ctx context.Context, u *unit.Unit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO units (id, rooms, type, floor, base_cost_cents, total_cost_cents, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Rooms, u.Type.String(), u.Floor, u.BaseCost.Cents(), u.TotalCost.Cents(), u.Description, u.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert unit", err)
	}
	return nil
}

func (r *UnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, rooms, type, floor, base_cost_cents, total_cost_cents, description, created_at
		 FROM units WHERE id = $1`, id)

	u, err := scanUnit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "unit not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to get unit", err)
	}
	return u, nil
}

// CountAvailable counts units with no active booking overlapping the
// range. It is the counting function behind the availability cache.
func (r *UnitRepository) CountAvailable(ctx context.Context, dates booking.DateRange) (int64, error) {
	query := `SELECT COUNT(*) FROM units u WHERE` + fmt.Sprintf(availabilityPredicate, 1, 2)

	var count int64
	err := r.pool.QueryRow(ctx, query, dates.Start(), dates.End()).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to count available units", err)
	}
	return count, nil
}

// Search returns one page of units matching the filter plus the total
// match count.
func (r *UnitRepository) Search(ctx context.Context, filter unit.SearchCriteria, sort unit.Sort, offset, limit int) ([]unit.Unit, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM units u" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to count units", err)
	}

	column, ok := sortColumns[sort.By]
	if !ok {
		column = "id"
	}
	direction := "DESC"
	if sort.Ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT id, rooms, type, floor, base_cost_cents, total_cost_cents, description, created_at
		 FROM units u%s ORDER BY %s %s OFFSET $%d LIMIT $%d`,
		where, column, direction, len(args)+1, len(args)+2,
	)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to search units", err)
	}
	defer rows.Close()

	var units []unit.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan unit", err)
		}
		units = append(units, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to read units", err)
	}
	return units, total, nil
}

func buildWhere(filter unit.SearchCriteria) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Rooms != nil {
		add("u.rooms = $%d", *filter.Rooms)
	}
	if filter.Type != nil {
		add("u.type = $%d", filter.Type.String())
	}
	if filter.Floor != nil {
		add("u.floor = $%d", *filter.Floor)
	}
	if filter.MaxCostCents != nil {
		add("u.total_cost_cents <= $%d", *filter.MaxCostCents)
	}
	if filter.Dates != nil {
		args = append(args, filter.Dates.Start(), filter.Dates.End())
		conds = append(conds, fmt.Sprintf(availabilityPredicate, len(args)-1, len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanUnit(row pgx.Row) (*unit.Unit, error) {
	var (
		u          unit.Unit
		accType    string
		baseCents  int64
		totalCents int64
	)
	err := row.Scan(&u.ID, &u.Rooms, &accType, &u.Floor, &baseCents, &totalCents, &u.Description, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Type = unit.AccommodationType(accType)
	u.BaseCost = unit.MustMoney(baseCents)
	u.TotalCost = unit.MustMoney(totalCents)
	return &u, nil
}
