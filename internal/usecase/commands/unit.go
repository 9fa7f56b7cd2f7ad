package commands

import (
	"context"
	"log/slog"

	"staybooker/internal/domain/unit"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/pkg/errs"
)

type AddUnitParams struct {
	Rooms       int
	Type        unit.AccommodationType
	Floor       int
	BaseCost    unit.Money
	Description string
}

type UnitCommands interface {
	// AddUnit persists a new unit; its total cost is derived from the base
	// cost through the markup function.
	AddUnit(ctx context.Context, params AddUnitParams) (*unit.Unit, error)
}

type unitCommandsImpl struct {
	unitRepo UnitRepository
	markup   unit.MarkupCalculator
	clock    clock.Clock
	logger   *slog.Logger
}

func NewUnitCommands(unitRepo UnitRepository, markup unit.MarkupCalculator, clk clock.Clock, logger *slog.Logger) UnitCommands {
	return &unitCommandsImpl{
		unitRepo: unitRepo,
		markup:   markup,
		clock:    clk,
		logger:   logger,
	}
}

func (c *unitCommandsImpl) AddUnit(ctx context.Context, params AddUnitParams) (*unit.Unit, error) {
	u, err := unit.NewUnit(params.Rooms, params.Type, params.Floor, params.BaseCost, params.Description, c.markup, c.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := c.unitRepo.Create(ctx, u); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.logger.Info("unit added", "unit_id", u.ID, "type", u.Type.String(), "total_cost", u.TotalCost.String())
	return u, nil
}
