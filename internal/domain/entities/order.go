package entities

// OrderNotes is the metadata attached to a gateway order at checkout. The
// verifier reads it back to learn which plan was charged.
type OrderNotes struct {
	UserID string   `json:"user_id"`
	PlanID string   `json:"plan_id"`
	Kind   PlanKind `json:"kind"`
}

// OrderRequest is what the order initiator asks the gateway to create.
type OrderRequest struct {
	AmountMinor int64
	Currency    Currency
	Receipt     string
	Notes       OrderNotes
}

// Order lives in the payment gateway; the billing service never stores it.
type Order struct {
	ID          string     `json:"id"`
	AmountMinor int64      `json:"amount"`
	Currency    Currency   `json:"currency"`
	Receipt     string     `json:"receipt,omitempty"`
	Status      string     `json:"status,omitempty"`
	Notes       OrderNotes `json:"notes"`
}
