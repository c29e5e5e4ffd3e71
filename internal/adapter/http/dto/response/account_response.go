package response

import (
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase"
)

type AccountResponse struct {
	UserID             string     `json:"user_id"`
	Credits            int64      `json:"credits"`
	IsSubscribed       bool       `json:"is_subscribed"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
}

func FromAccountSummary(s usecase.AccountSummary) AccountResponse {
	return AccountResponse{
		UserID:             s.Account.UserID,
		Credits:            s.Account.Credits,
		IsSubscribed:       s.Account.IsSubscribed,
		SubscriptionStatus: string(s.Status),
		SubscriptionExpiry: s.Account.SubscriptionExpiry,
	}
}

type PlanResponse struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Credits  int64  `json:"credits"`
	Kind     string `json:"kind"`
}

func FromPlans(plans []entities.Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{
			ID:       p.ID,
			Amount:   p.Amount.String(),
			Currency: string(p.Currency),
			Credits:  p.Credits,
			Kind:     string(p.Kind),
		})
	}
	return out
}
