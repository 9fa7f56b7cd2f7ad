package api

import (
	"errors"
	"net/http"

	reqdto "staybooker/internal/handler/dto/request"
	resdto "staybooker/internal/handler/dto/response"
	"staybooker/internal/handler/httperr"
	"staybooker/internal/domain/booking"
	"staybooker/internal/infra"
	"staybooker/internal/usecase/commands"
	"staybooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
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

	b, err := h.bookingCommands.BookUnit(c.Request.Context(), req.UnitID, req.UserID, dates)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnitNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unit not found",
			})
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, commands.ErrUnitNotAvailable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Unit is not available for the selected dates",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	views, err := h.bookingQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	responses := make([]*resdto.BookingResponse, 0, len(views))
	for i := range views {
		responses = append(responses, resdto.FromBookingView(&views[i]))
	}
	c.JSON(http.StatusOK, responses)
}
