package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the outcome recorded for a settled payment. Only
// successful settlements are ever written.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
)

// PaymentTransaction is the append-only ledger row for a settled payment.
//
// Storage model (DynamoDB):
//   - PK: payment_id (the idempotency fence: inserted with attribute_not_exists)
//   - GSI (user_id-index): user_id
//
// Rows are immutable once written.
type PaymentTransaction struct {
	PaymentID      string            `json:"payment_id"`
	UserID         string            `json:"user_id"`
	OrderID        string            `json:"order_id"`
	PlanID         string            `json:"plan_id"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       Currency          `json:"currency"`
	CreditsGranted int64             `json:"credits_granted"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}
