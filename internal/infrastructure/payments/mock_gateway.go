package payments

import (
	"context"
	"errors"
	"strings"
	"sync"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrMockOrderNotFound = errors.New("mock order not found")

// MockGateway keeps orders in memory for local runs (PAYMENT_GATEWAY_MOCK).
// CompleteCheckout stands in for the hosted checkout: it mints a payment id
// and signs it with the mock secret.
type MockGateway struct {
	mu     sync.RWMutex
	orders map[string]entities.Order
	sign   func(orderID, paymentID string) string
}

var _ interfaces.IPaymentGateway = (*MockGateway)(nil)

func NewMockGateway(sign func(orderID, paymentID string) string) *MockGateway {
	log.Info().Msg("[payment][gateway] mock mode enabled")
	return &MockGateway{orders: make(map[string]entities.Order), sign: sign}
}

func (g *MockGateway) CreateOrder(_ context.Context, req entities.OrderRequest) (entities.Order, error) {
	order := entities.Order{
		ID:          "order_" + compactID(),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
		Notes:       req.Notes,
	}
	g.mu.Lock()
	g.orders[order.ID] = order
	g.mu.Unlock()
	log.Info().Str("order_id", order.ID).Msg("[payment][gateway] mock create success")
	return order, nil
}

func (g *MockGateway) FetchOrder(_ context.Context, orderID string) (entities.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	order, ok := g.orders[orderID]
	if !ok {
		return entities.Order{}, ErrMockOrderNotFound
	}
	return order, nil
}

// CompleteCheckout marks the order paid and returns what the checkout widget
// would hand back to the caller.
func (g *MockGateway) CompleteCheckout(orderID string) (paymentID, signature string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, ok := g.orders[orderID]
	if !ok {
		return "", "", ErrMockOrderNotFound
	}
	order.Status = "paid"
	g.orders[orderID] = order
	paymentID = "pay_" + compactID()
	return paymentID, g.sign(orderID, paymentID), nil
}

func compactID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}
