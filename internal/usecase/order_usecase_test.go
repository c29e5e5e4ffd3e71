package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/domain/entities"
	mock_interfaces "sasa_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestOrderUseCase_CreateOrder(t *testing.T) {
	identity := entities.Identity{UserID: "9f1c2d3e-aaaa-bbbb-cccc-1234567890ab"}
	fixed := time.UnixMilli(1767225600123).UTC()

	t.Run("unauthorized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewOrderUseCase(catalog.Default(), gw, nil)

		_, err := uc.CreateOrder(context.Background(), entities.Identity{UserID: "  "}, catalog.Selector{PlanID: "pro_monthly"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("invalid plan never reaches gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		metrics := mock_interfaces.NewMockIPaymentMetrics(ctrl)
		uc := NewOrderUseCase(catalog.Default(), gw, metrics)

		metrics.EXPECT().ObserveOrder("unknown", "rejected").Times(3)

		for _, sel := range []catalog.Selector{{}, {PlanID: "enterprise"}, {Mode: "credits", Currency: "EUR"}} {
			_, err := uc.CreateOrder(context.Background(), identity, sel)
			if !errors.Is(err, ErrInvalidPlan) {
				t.Fatalf("expected ErrInvalidPlan for %s, got %v", sel, err)
			}
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		uc := NewOrderUseCase(catalog.Default(), nil, nil)
		_, err := uc.CreateOrder(context.Background(), identity, catalog.Selector{PlanID: "pro_monthly"})
		if !errors.Is(err, ErrGatewayNotConfigured) {
			t.Fatalf("expected ErrGatewayNotConfigured, got %v", err)
		}
	})

	t.Run("gateway failure carries diagnostic", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewOrderUseCase(catalog.Default(), gw, nil)

		gw.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(entities.Order{}, errors.New("BAD_REQUEST_ERROR: amount too low"))

		_, err := uc.CreateOrder(context.Background(), identity, catalog.Selector{PlanID: "pro_monthly"})
		if !errors.Is(err, ErrOrderCreationFailed) {
			t.Fatalf("expected ErrOrderCreationFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "amount too low") {
			t.Fatalf("expected provider diagnostic in %q", err.Error())
		}
	})

	t.Run("subscription order uses catalog amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		metrics := mock_interfaces.NewMockIPaymentMetrics(ctrl)
		uc := NewOrderUseCase(catalog.Default(), gw, metrics)
		uc.now = func() time.Time { return fixed }

		gw.EXPECT().CreateOrder(gomock.Any(), gomock.AssignableToTypeOf(entities.OrderRequest{})).DoAndReturn(
			func(_ context.Context, req entities.OrderRequest) (entities.Order, error) {
				if req.AmountMinor != 39900 || req.Currency != entities.CurrencyINR {
					t.Fatalf("unexpected amount %d %s", req.AmountMinor, req.Currency)
				}
				if req.Receipt != "rcpt_s_9f1c2d3e_1767225600123" {
					t.Fatalf("unexpected receipt %q", req.Receipt)
				}
				if req.Notes.UserID != identity.UserID || req.Notes.PlanID != "pro_monthly" || req.Notes.Kind != entities.PlanKindSubscription {
					t.Fatalf("unexpected notes %+v", req.Notes)
				}
				return entities.Order{ID: "order_1", AmountMinor: req.AmountMinor, Currency: req.Currency, Notes: req.Notes}, nil
			},
		)
		metrics.EXPECT().ObserveOrder("pro_monthly", "created")

		order, err := uc.CreateOrder(context.Background(), identity, catalog.Selector{PlanID: "pro_monthly"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != "order_1" || order.AmountMinor != 39900 || order.Currency != entities.CurrencyINR {
			t.Fatalf("unexpected order %+v", order)
		}
	})

	t.Run("credits in usd by mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewOrderUseCase(catalog.Default(), gw, nil)
		uc.now = func() time.Time { return fixed }

		gw.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req entities.OrderRequest) (entities.Order, error) {
				if req.AmountMinor != 200 || req.Currency != entities.CurrencyUSD || req.Notes.PlanID != "credit_topup_global" {
					t.Fatalf("unexpected request %+v", req)
				}
				if !strings.HasPrefix(req.Receipt, "rcpt_c_") {
					t.Fatalf("unexpected receipt %q", req.Receipt)
				}
				return entities.Order{ID: "order_2", AmountMinor: 200, Currency: entities.CurrencyUSD}, nil
			},
		)

		if _, err := uc.CreateOrder(context.Background(), identity, catalog.Selector{Mode: "credits", Currency: "USD"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBuildReceipt_ShortUserID(t *testing.T) {
	p := entities.Plan{ID: "credit_topup_100", Kind: entities.PlanKindOneTime}
	got := buildReceipt(p, "abc", time.UnixMilli(5))
	if got != "rcpt_c_abc_5" {
		t.Fatalf("unexpected receipt %q", got)
	}
	if len(buildReceipt(p, strings.Repeat("x", 64), time.Now())) > 40 {
		t.Fatalf("receipt exceeds gateway limit")
	}
}
