package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"sasa_billing/internal/domain/entities"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRazorpayOrders struct {
	create func(map[string]interface{}) (map[string]interface{}, error)
	fetch  func(string) (map[string]interface{}, error)
}

func (f fakeRazorpayOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	return f.create(data)
}

func (f fakeRazorpayOrders) Fetch(id string, _ map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	return f.fetch(id)
}

func TestNewRazorpayGateway_RequiresCredentials(t *testing.T) {
	_, err := NewRazorpayGateway("rzp_test_key", "", time.Second)
	assert.ErrorIs(t, err, ErrMissingRazorpayCredentials)

	g, err := NewRazorpayGateway("rzp_test_key", "secret", 5*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, g.orders)
	assert.Equal(t, 5*time.Second, razorpay.Request.HTTPClient.Timeout)
}

func TestNewRazorpayGateway_SubSecondTimeoutKeepsDefault(t *testing.T) {
	_, err := NewRazorpayGateway("rzp_test_key", "secret", 500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(requests.TIMEOUT)*time.Second, razorpay.Request.HTTPClient.Timeout)
}

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	g := &RazorpayGateway{orders: fakeRazorpayOrders{
		create: func(data map[string]interface{}) (map[string]interface{}, error) {
			assert.Equal(t, int64(39900), data["amount"])
			assert.Equal(t, "INR", data["currency"])
			assert.Equal(t, "rcpt_s_user1234_1", data["receipt"])
			notes := data["notes"].(map[string]interface{})
			assert.Equal(t, "pro_monthly", notes["plan_id"])
			return map[string]interface{}{
				"id":       "order_Abc123",
				"entity":   "order",
				"amount":   float64(39900),
				"currency": "INR",
				"receipt":  "rcpt_s_user1234_1",
				"status":   "created",
				"notes":    notes,
			}, nil
		},
	}}

	order, err := g.CreateOrder(context.Background(), entities.OrderRequest{
		AmountMinor: 39900,
		Currency:    entities.CurrencyINR,
		Receipt:     "rcpt_s_user1234_1",
		Notes:       entities.OrderNotes{UserID: "user1234", PlanID: "pro_monthly", Kind: entities.PlanKindSubscription},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_Abc123", order.ID)
	assert.Equal(t, int64(39900), order.AmountMinor)
	assert.Equal(t, entities.CurrencyINR, order.Currency)
	assert.Equal(t, "pro_monthly", order.Notes.PlanID)
	assert.Equal(t, entities.PlanKindSubscription, order.Notes.Kind)
}

func TestRazorpayGateway_CreateOrderError(t *testing.T) {
	g := &RazorpayGateway{orders: fakeRazorpayOrders{
		create: func(map[string]interface{}) (map[string]interface{}, error) {
			return nil, errors.New("Authentication failed")
		},
	}}
	_, err := g.CreateOrder(context.Background(), entities.OrderRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestRazorpayGateway_FetchOrder(t *testing.T) {
	g := &RazorpayGateway{orders: fakeRazorpayOrders{
		fetch: func(id string) (map[string]interface{}, error) {
			switch id {
			case "order_no_notes":
				return map[string]interface{}{"id": id, "amount": float64(200), "currency": "usd", "notes": []interface{}{}}, nil
			case "order_empty":
				return map[string]interface{}{}, nil
			default:
				return nil, errors.New("BAD_REQUEST_ERROR: The id provided does not exist")
			}
		},
	}}

	order, err := g.FetchOrder(context.Background(), "order_no_notes")
	require.NoError(t, err)
	assert.Equal(t, entities.CurrencyUSD, order.Currency)
	assert.Equal(t, int64(200), order.AmountMinor)
	assert.Empty(t, order.Notes.PlanID)

	_, err = g.FetchOrder(context.Background(), "order_empty")
	assert.Error(t, err)

	_, err = g.FetchOrder(context.Background(), "order_missing")
	assert.Error(t, err)
}

func TestRazorpayGateway_RespectsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	g := &RazorpayGateway{orders: fakeRazorpayOrders{
		fetch: func(string) (map[string]interface{}, error) {
			<-release
			return nil, nil
		},
	}, timeout: 20 * time.Millisecond}

	start := time.Now()
	_, err := g.FetchOrder(context.Background(), "order_slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
