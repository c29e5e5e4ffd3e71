package interfaces

import (
	"context"
	"errors"

	"sasa_billing/internal/domain/entities"
)

// IPaymentGateway abstracts the external payment provider (Razorpay,
// Mercado Pago or the local mock).
//
// Implementations never retry: a failed call is reported once and the caller
// decides. Orders live only in the provider.
type IPaymentGateway interface {
	CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.Order, error)
	FetchOrder(ctx context.Context, orderID string) (entities.Order, error)
}

// ErrPaymentNotConfirmed is returned by IPaymentConfirmer when the provider
// reports the payment but it is not an approved payment of the given order.
var ErrPaymentNotConfirmed = errors.New("payment not confirmed by provider")

// IPaymentConfirmer is implemented by gateways whose checkout returns no
// client-verifiable signature. The payment is confirmed by asking the provider.
type IPaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, orderID, paymentID string) error
}
