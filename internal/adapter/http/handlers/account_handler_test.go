package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sasa_billing/internal/adapter/http/handlers/mocks"
	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/infrastructure/payments"
	"sasa_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAccountHandler_GetAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAccountUseCase(ctrl)
		h := NewAccountHandler(uc)
		r := gin.New()
		r.GET("/v1/account", withIdentity("user-1"), h.GetAccount)

		expiry := time.Now().UTC().Add(72 * time.Hour)
		uc.EXPECT().GetAccount(gomock.Any(), entities.Identity{UserID: "user-1"}).Return(usecase.AccountSummary{
			Account: entities.Account{UserID: "user-1", Credits: 150, SubscriptionExpiry: &expiry, IsSubscribed: true},
			Status:  entities.SubscriptionStatusActive,
		}, nil)

		w := get(r, "/v1/account")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["credits"] != float64(150) || body["subscription_status"] != "active" || body["is_subscribed"] != true {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		if _, ok := body["revision"]; ok {
			t.Fatalf("revision must not be exposed: %s", w.Body.String())
		}
	})

	t.Run("profile not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAccountUseCase(ctrl)
		h := NewAccountHandler(uc)
		r := gin.New()
		r.GET("/v1/account", withIdentity("user-1"), h.GetAccount)

		uc.EXPECT().GetAccount(gomock.Any(), gomock.Any()).Return(usecase.AccountSummary{}, usecase.ErrProfileNotFound)

		if w := get(r, "/v1/account"); w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("no identity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewAccountHandler(mocks.NewMockIAccountUseCase(ctrl))
		r := gin.New()
		r.GET("/v1/account", h.GetAccount)

		if w := get(r, "/v1/account"); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestAccountHandler_ListPayments(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAccountUseCase(ctrl)
		h := NewAccountHandler(uc)
		r := gin.New()
		r.GET("/v1/payments", withIdentity("user-1"), h.ListPayments)

		uc.EXPECT().ListPayments(gomock.Any(), entities.Identity{UserID: "user-1"}).Return([]entities.PaymentTransaction{
			{PaymentID: "pay_2", PlanID: catalog.PlanCreditTopup100, Amount: decimal.NewFromInt(100), Currency: entities.CurrencyINR, Status: entities.TransactionStatusSuccess},
			{PaymentID: "pay_1", PlanID: catalog.PlanProMonthly, Amount: decimal.NewFromInt(399), Currency: entities.CurrencyINR, Status: entities.TransactionStatusSuccess},
		}, nil)

		w := get(r, "/v1/payments")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var rows []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if len(rows) != 2 || rows[0]["payment_id"] != "pay_2" || rows[1]["amount"] != "399.00" {
			t.Fatalf("unexpected rows: %s", w.Body.String())
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAccountUseCase(ctrl)
		h := NewAccountHandler(uc)
		r := gin.New()
		r.GET("/v1/payments", withIdentity("user-1"), h.ListPayments)

		uc.EXPECT().ListPayments(gomock.Any(), gomock.Any()).Return(nil, nil)

		if w := get(r, "/v1/payments"); w.Body.String() != "[]" {
			t.Fatalf("expected [], got %s", w.Body.String())
		}
	})

	t.Run("ledger error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAccountUseCase(ctrl)
		h := NewAccountHandler(uc)
		r := gin.New()
		r.GET("/v1/payments", withIdentity("user-1"), h.ListPayments)

		uc.EXPECT().ListPayments(gomock.Any(), gomock.Any()).Return(nil, errors.New("dynamodb unavailable"))

		if w := get(r, "/v1/payments"); w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}

func TestAccountHandler_ListPlans(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIAccountUseCase(ctrl)
	h := NewAccountHandler(uc)
	r := gin.New()
	r.GET("/v1/plans", h.ListPlans)

	uc.EXPECT().ListPlans().Return(catalog.Default().Plans())

	w := get(r, "/v1/plans")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var plans []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &plans)
	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %s", w.Body.String())
	}
}

func TestMockCheckoutHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gateway := payments.NewMockGateway(func(orderID, paymentID string) string { return orderID + "|" + paymentID })
	h := NewMockCheckoutHandler(gateway)
	r := gin.New()
	r.POST("/v1/mock/checkout/:order_id", h.CompleteCheckout)

	order, err := gateway.CreateOrder(context.Background(), entities.OrderRequest{AmountMinor: 39900, Currency: entities.CurrencyINR})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	w := postJSON(r, "/v1/mock/checkout/"+order.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	paymentID, _ := body["razorpay_payment_id"].(string)
	if body["razorpay_order_id"] != order.ID || body["razorpay_signature"] != order.ID+"|"+paymentID {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	if w := postJSON(r, "/v1/mock/checkout/order_missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
