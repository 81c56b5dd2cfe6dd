package services

import (
	"context"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/payment"
)

// CreateOrderRequest starts a payment for a stay at the given hostel.
type CreateOrderRequest struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Currency   string  `json:"currency" validate:"required,len=3"`
	HostelCode string  `json:"hostel_code" validate:"required"`
}

type PaymentService struct {
	gateway    payment.Gateway
	hostelRepo models.HostelRepo
}

func NewPaymentService(gateway payment.Gateway, hostelRepo models.HostelRepo) *PaymentService {
	return &PaymentService{
		gateway:    gateway,
		hostelRepo: hostelRepo,
	}
}

// CreateOrder validates the request against the catalogue and asks the
// gateway for a payable order.
func (ps *PaymentService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*payment.Order, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid order request", err)
	}

	// The hostel must exist before money changes hands.
	if _, err := ps.hostelRepo.GetHostelByCode(ctx, req.HostelCode); err != nil {
		return nil, err
	}

	return ps.gateway.CreateOrder(ctx, req.Amount, req.Currency, req.HostelCode)
}
