package api

import (
	"errors"
	"net/http"

	reqdto "staybooker/internal/handler/dto/request"
	resdto "staybooker/internal/handler/dto/response"
	"staybooker/internal/handler/httperr"
	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/unit"
	"staybooker/internal/infra"
	"staybooker/internal/usecase/commands"
	"staybooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UnitHandler struct {
	unitCommands commands.UnitCommands
	unitQueries  queries.UnitQueries
}

func NewUnitHandler(unitCommands commands.UnitCommands, unitQueries queries.UnitQueries) *UnitHandler {
	return &UnitHandler{
		unitCommands: unitCommands,
		unitQueries:  unitQueries,
	}
}

func (h *UnitHandler) AddUnit(c *gin.Context) {
	var req reqdto.AddUnitRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	u, err := h.unitCommands.AddUnit(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, unit.ErrInvalidRooms),
			errors.Is(err, unit.ErrInvalidType),
			errors.Is(err, unit.ErrInvalidFloor),
			errors.Is(err, unit.ErrNegativeMoney):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromUnit(u))
}

func (h *UnitHandler) SearchUnits(c *gin.Context) {
	var req reqdto.SearchUnitsRequest
	if bindErr := c.ShouldBindQuery(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	criteria, sort, err := req.ToCriteria()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	result, err := h.unitQueries.Search(c.Request.Context(), criteria, sort, req.Offset, req.Limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUnitSearchResult(result))
}

func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid unit ID format",
		})
		return
	}

	view, err := h.unitQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unit not found",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUnitView(view))
}

func (h *UnitHandler) Availability(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	dates, err := req.ToDateRange()
	if err != nil {
		if errors.Is(err, booking.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Start date must not be after end date",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	view, err := h.unitQueries.AvailableCount(c.Request.Context(), dates)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
