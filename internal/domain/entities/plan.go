package entities

import "github.com/shopspring/decimal"

// Currency is the ISO 4217 code a plan is charged in.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

// PlanKind tells the verifier whether a purchase extends the subscription
// period or only grants credits.
type PlanKind string

const (
	PlanKindSubscription PlanKind = "subscription"
	PlanKindOneTime      PlanKind = "one_time"
)

// Plan is a purchasable catalog entry. Plans are static and never persisted.
//
// Amount is expressed in major currency units (399 INR, 8 USD); gateways
// receive MinorAmount().
type Plan struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	Credits  int64           `json:"credits"`
	Kind     PlanKind        `json:"kind"`
}

// MinorAmount returns the charge in minor units (paise, cents).
func (p Plan) MinorAmount() int64 {
	return p.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (p Plan) IsSubscription() bool {
	return p.Kind == PlanKindSubscription
}
