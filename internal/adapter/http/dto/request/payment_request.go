package request

import (
	"strings"

	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/usecase"
)

const (
	ActionCreateOrder   = "create_order"
	ActionVerifyPayment = "verify_payment"
)

// PaymentActionRequest is the body of POST /payment. The same route serves
// order creation and verification, selected by Action.
//
// Razorpay checkout hands back razorpay_* keys; the short names are accepted too.
type PaymentActionRequest struct {
	Action   string `json:"action"`
	Plan     string `json:"plan"`
	PlanID   string `json:"plan_id"`
	Mode     string `json:"mode"`
	Currency string `json:"currency"`

	PaymentID         string `json:"payment_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	OrderID           string `json:"order_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	Signature         string `json:"signature"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// ResolveAction lower-cases the action and turns inner spaces into
// underscores, so "Verify Payment" reads as verify_payment.
func (r PaymentActionRequest) ResolveAction() string {
	action := strings.ToLower(strings.TrimSpace(r.Action))
	return strings.Join(strings.Fields(action), "_")
}

func (r PaymentActionRequest) Selector() catalog.Selector {
	return catalog.Selector{
		PlanID:   firstNonEmpty(r.Plan, r.PlanID),
		Mode:     strings.TrimSpace(r.Mode),
		Currency: strings.TrimSpace(r.Currency),
	}
}

func (r PaymentActionRequest) VerifyInput() usecase.VerifyPaymentInput {
	return usecase.VerifyPaymentInput{
		Selector:  r.Selector(),
		PaymentID: firstNonEmpty(r.PaymentID, r.RazorpayPaymentID),
		OrderID:   firstNonEmpty(r.OrderID, r.RazorpayOrderID),
		Signature: firstNonEmpty(r.Signature, r.RazorpaySignature),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
