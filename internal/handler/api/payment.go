package api

import (
	"net/http"

	resdto "staybooker/internal/handler/dto/response"
	"staybooker/internal/handler/httperr"
	"staybooker/internal/infra"
	"staybooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentQueries queries.PaymentQueries
}

func NewPaymentHandler(paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentQueries: paymentQueries,
	}
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid payment ID format",
		})
		return
	}

	view, err := h.paymentQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	views, err := h.paymentQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	responses := make([]*resdto.PaymentResponse, 0, len(views))
	for i := range views {
		responses = append(responses, resdto.FromPaymentView(&views[i]))
	}
	c.JSON(http.StatusOK, responses)
}
