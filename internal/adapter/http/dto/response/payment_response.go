package response

import (
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase"
)

// OrderResponse is handed to the checkout widget as-is.
type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{ID: o.ID, Amount: o.AmountMinor, Currency: string(o.Currency)}
}

type VerifyPaymentResponse struct {
	Success            bool       `json:"success"`
	Balance            int64      `json:"balance"`
	CreditsGranted     int64      `json:"credits_granted"`
	PlanID             string     `json:"plan_id"`
	PaymentID          string     `json:"payment_id"`
	IsSubscribed       bool       `json:"is_subscribed"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
}

func FromSettlement(r usecase.SettlementResult) VerifyPaymentResponse {
	return VerifyPaymentResponse{
		Success:            true,
		Balance:            r.Credits,
		CreditsGranted:     r.CreditsGranted,
		PlanID:             r.PlanID,
		PaymentID:          r.PaymentID,
		IsSubscribed:       r.IsSubscribed,
		SubscriptionExpiry: r.SubscriptionExpiry,
	}
}

type PaymentTransactionResponse struct {
	PaymentID      string    `json:"payment_id"`
	OrderID        string    `json:"order_id"`
	PlanID         string    `json:"plan_id"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	CreditsGranted int64     `json:"credits_granted"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromPaymentTransactions(txs []entities.PaymentTransaction) []PaymentTransactionResponse {
	out := make([]PaymentTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, PaymentTransactionResponse{
			PaymentID:      tx.PaymentID,
			OrderID:        tx.OrderID,
			PlanID:         tx.PlanID,
			Amount:         tx.Amount.StringFixed(2),
			Currency:       string(tx.Currency),
			CreditsGranted: tx.CreditsGranted,
			Status:         string(tx.Status),
			CreatedAt:      tx.CreatedAt,
		})
	}
	return out
}

// MockCheckoutResponse carries what a real checkout widget would post back.
type MockCheckoutResponse struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
