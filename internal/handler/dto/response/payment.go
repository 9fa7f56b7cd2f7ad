package response

import (
	"time"

	"staybooker/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"bookingId"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amountCents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:          v.ID,
		BookingID:   v.BookingID,
		Amount:      v.Amount,
		AmountCents: v.AmountCents,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
