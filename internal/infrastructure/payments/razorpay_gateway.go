package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog/log"
)

var ErrMissingRazorpayCredentials = errors.New("missing RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET")

// razorpayOrders is the part of the SDK's order resource we call.
type razorpayOrders interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayGateway struct {
	orders  razorpayOrders
	timeout time.Duration
}

var _ interfaces.IPaymentGateway = (*RazorpayGateway)(nil)

func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration) (*RazorpayGateway, error) {
	if strings.TrimSpace(keyID) == "" || strings.TrimSpace(keySecret) == "" {
		log.Warn().Msg("[payment][gateway] missing razorpay credentials")
		return nil, ErrMissingRazorpayCredentials
	}
	client := razorpay.NewClient(keyID, keySecret)
	if secs := int16(timeout / time.Second); secs > 0 {
		client.SetTimeout(secs)
	}
	log.Info().Str("key_id", keyID).Msg("[payment][gateway] razorpay client initialized")
	return &RazorpayGateway{orders: client.Order, timeout: timeout}, nil
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req entities.OrderRequest) (entities.Order, error) {
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": string(req.Currency),
		"receipt":  req.Receipt,
		"notes": map[string]interface{}{
			"user_id": req.Notes.UserID,
			"plan_id": req.Notes.PlanID,
			"kind":    string(req.Notes.Kind),
		},
	}
	log.Debug().Str("receipt", req.Receipt).Int64("amount", req.AmountMinor).Msg("[payment][gateway] razorpay create start")

	body, err := g.call(ctx, func() (map[string]interface{}, error) { return g.orders.Create(data, nil) })
	if err != nil {
		return entities.Order{}, fmt.Errorf("razorpay create order: %w", err)
	}
	order, err := orderFromRazorpay(body)
	if err != nil {
		return entities.Order{}, fmt.Errorf("razorpay create order: %w", err)
	}
	log.Info().Str("order_id", order.ID).Msg("[payment][gateway] razorpay create success")
	return order, nil
}

func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (entities.Order, error) {
	body, err := g.call(ctx, func() (map[string]interface{}, error) { return g.orders.Fetch(orderID, nil, nil) })
	if err != nil {
		return entities.Order{}, fmt.Errorf("razorpay fetch order %s: %w", orderID, err)
	}
	return orderFromRazorpay(body)
}

// call runs a blocking SDK request but returns as soon as ctx is done. The
// SDK has no context support; its own HTTP timeout bounds the goroutine.
func (g *RazorpayGateway) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := fn()
		done <- result{body: body, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.body, r.err
	}
}

func orderFromRazorpay(body map[string]interface{}) (entities.Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return entities.Order{}, errors.New("response without order id")
	}
	order := entities.Order{
		ID:          id,
		AmountMinor: toInt64(body["amount"]),
		Currency:    entities.Currency(strings.ToUpper(stringOf(body["currency"]))),
		Receipt:     stringOf(body["receipt"]),
		Status:      stringOf(body["status"]),
	}
	// Razorpay sends notes as [] when there are none.
	if notes, ok := body["notes"].(map[string]interface{}); ok {
		order.Notes = entities.OrderNotes{
			UserID: stringOf(notes["user_id"]),
			PlanID: stringOf(notes["plan_id"]),
			Kind:   entities.PlanKind(stringOf(notes["kind"])),
		}
	}
	return order, nil
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(math.Round(n))
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
