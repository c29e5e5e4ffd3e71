package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

const paymentStatusApproved = "approved"

type preferenceAPI interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
	Get(ctx context.Context, id string) (*preference.Response, error)
}

type paymentAPI interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoGateway maps orders onto checkout preferences. The preference
// id is the order id; plan notes travel in the preference metadata.
// Checkout returns no signature, so payments are confirmed by lookup.
type MercadoPagoGateway struct {
	client   preferenceAPI
	payments paymentAPI
	timeout  time.Duration
}

var (
	_ interfaces.IPaymentGateway   = (*MercadoPagoGateway)(nil)
	_ interfaces.IPaymentConfirmer = (*MercadoPagoGateway)(nil)
)

func NewMercadoPagoGateway(accessToken string, timeout time.Duration) (*MercadoPagoGateway, error) {
	if strings.TrimSpace(accessToken) == "" {
		log.Warn().Msg("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Error().Err(err).Msg("[payment][gateway] failed creating sdk config")
		return nil, err
	}
	log.Info().Msg("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{
		client:   preference.NewClient(cfg),
		payments: payment.NewClient(cfg),
		timeout:  timeout,
	}, nil
}

func (g *MercadoPagoGateway) CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.Order, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	unitPrice, _ := decimal.New(req.AmountMinor, -2).Float64()
	resp, err := g.client.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			ID:         req.Notes.PlanID,
			Title:      req.Notes.PlanID,
			Quantity:   1,
			UnitPrice:  unitPrice,
			CurrencyID: string(req.Currency),
		}},
		ExternalReference: req.Receipt,
		Metadata: map[string]any{
			"user_id": req.Notes.UserID,
			"plan_id": req.Notes.PlanID,
			"kind":    string(req.Notes.Kind),
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("[payment][gateway] sdk create preference failed")
		return entities.Order{}, fmt.Errorf("mercadopago create preference: %w", err)
	}
	order, err := orderFromPreference(resp)
	if err != nil {
		return entities.Order{}, fmt.Errorf("mercadopago create preference: %w", err)
	}
	log.Info().Str("order_id", order.ID).Msg("[payment][gateway] mercadopago create success")
	return order, nil
}

func (g *MercadoPagoGateway) FetchOrder(ctx context.Context, orderID string) (entities.Order, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Get(ctx, orderID)
	if err != nil {
		return entities.Order{}, fmt.Errorf("mercadopago get preference %s: %w", orderID, err)
	}
	return orderFromPreference(resp)
}

// ConfirmPayment accepts the payment only when Mercado Pago reports it
// approved and it was made against the preference's external reference for
// the full order amount.
func (g *MercadoPagoGateway) ConfirmPayment(ctx context.Context, orderID, paymentID string) error {
	id, err := strconv.Atoi(strings.TrimSpace(paymentID))
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: payment id %q is not a mercadopago payment id", interfaces.ErrPaymentNotConfirmed, paymentID)
	}

	order, err := g.FetchOrder(ctx, orderID)
	if err != nil {
		return err
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}
	if resp == nil {
		return fmt.Errorf("mercadopago get payment %d: empty response", id)
	}

	switch {
	case resp.Status != paymentStatusApproved:
		log.Warn().Int("payment_id", id).Str("status", resp.Status).Msg("[payment][gateway] mercadopago payment not approved")
		return fmt.Errorf("%w: status %q", interfaces.ErrPaymentNotConfirmed, resp.Status)
	case order.Receipt == "" || resp.ExternalReference != order.Receipt:
		log.Warn().Int("payment_id", id).Str("order_id", orderID).Msg("[payment][gateway] mercadopago payment belongs to another order")
		return fmt.Errorf("%w: payment %d is not for order %s", interfaces.ErrPaymentNotConfirmed, id, orderID)
	case !strings.EqualFold(resp.CurrencyID, string(order.Currency)) ||
		decimal.NewFromFloat(resp.TransactionAmount).Shift(2).Round(0).IntPart() != order.AmountMinor:
		return fmt.Errorf("%w: payment %d amount differs from order %s", interfaces.ErrPaymentNotConfirmed, id, orderID)
	}

	log.Info().Int("payment_id", id).Str("order_id", orderID).Msg("[payment][gateway] mercadopago payment confirmed")
	return nil
}

func (g *MercadoPagoGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func orderFromPreference(resp *preference.Response) (entities.Order, error) {
	if resp == nil || resp.ID == "" {
		return entities.Order{}, errors.New("response without preference id")
	}
	total := decimal.Zero
	currency := ""
	for _, it := range resp.Items {
		total = total.Add(decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity))))
		if currency == "" {
			currency = it.CurrencyID
		}
	}
	return entities.Order{
		ID:          resp.ID,
		AmountMinor: total.Shift(2).Round(0).IntPart(),
		Currency:    entities.Currency(strings.ToUpper(currency)),
		Receipt:     resp.ExternalReference,
		Notes: entities.OrderNotes{
			UserID: metadataString(resp.Metadata, "user_id"),
			PlanID: metadataString(resp.Metadata, "plan_id"),
			Kind:   entities.PlanKind(metadataString(resp.Metadata, "kind")),
		},
	}, nil
}

func metadataString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
