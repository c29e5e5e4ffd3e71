package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
)

const (
	outcomeCreated  = "created"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// IOrderUseCase opens a checkout for a catalog plan.
//
// The charged amount always comes from the catalog. Nothing is persisted
// here: the order lives in the gateway until the caller comes back to verify.
type IOrderUseCase interface {
	CreateOrder(ctx context.Context, identity entities.Identity, sel catalog.Selector) (entities.Order, error)
}

type OrderUseCase struct {
	catalog *catalog.Catalog
	gateway interfaces.IPaymentGateway
	metrics interfaces.IPaymentMetrics
	now     func() time.Time
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(cat *catalog.Catalog, gateway interfaces.IPaymentGateway, metrics interfaces.IPaymentMetrics) *OrderUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &OrderUseCase{catalog: cat, gateway: gateway, metrics: metrics, now: time.Now}
}

func (u *OrderUseCase) CreateOrder(ctx context.Context, identity entities.Identity, sel catalog.Selector) (entities.Order, error) {
	userID := strings.TrimSpace(identity.UserID)
	if userID == "" {
		return entities.Order{}, ErrUnauthorized
	}
	logger := log.With().Str("user_id", userID).Str("selector", sel.String()).Logger()
	logger.Info().Msg("[payment][usecase] create-order start")

	plan, err := u.catalog.Resolve(sel)
	if err != nil {
		logger.Warn().Err(err).Msg("[payment][usecase] plan not resolved")
		u.metrics.ObserveOrder("unknown", outcomeRejected)
		return entities.Order{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if u.gateway == nil {
		logger.Error().Msg("[payment][usecase] gateway not configured")
		u.metrics.ObserveOrder(plan.ID, outcomeFailed)
		return entities.Order{}, ErrGatewayNotConfigured
	}

	req := entities.OrderRequest{
		AmountMinor: plan.MinorAmount(),
		Currency:    plan.Currency,
		Receipt:     buildReceipt(plan, userID, u.now()),
		Notes: entities.OrderNotes{
			UserID: userID,
			PlanID: plan.ID,
			Kind:   plan.Kind,
		},
	}

	order, err := u.gateway.CreateOrder(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("plan_id", plan.ID).Msg("[payment][usecase] gateway create-order failed")
		u.metrics.ObserveOrder(plan.ID, outcomeFailed)
		return entities.Order{}, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	logger.Info().
		Str("plan_id", plan.ID).
		Str("order_id", order.ID).
		Int64("amount", order.AmountMinor).
		Str("currency", string(order.Currency)).
		Msg("[payment][usecase] create-order success")
	u.metrics.ObserveOrder(plan.ID, outcomeCreated)
	return order, nil
}

// buildReceipt yields rcpt_{s|c}_{uid prefix}_{unix millis}; the gateway caps
// receipts at 40 characters.
func buildReceipt(plan entities.Plan, userID string, at time.Time) string {
	kind := "c"
	if plan.IsSubscription() {
		kind = "s"
	}
	prefix := userID
	if r := []rune(prefix); len(r) > 8 {
		prefix = string(r[:8])
	}
	return fmt.Sprintf("rcpt_%s_%s_%d", kind, prefix, at.UnixMilli())
}

type noopMetrics struct{}

func (noopMetrics) ObserveOrder(string, string)      {}
func (noopMetrics) ObserveSettlement(string, string) {}
func (noopMetrics) ObserveSettlementConflict()       {}
