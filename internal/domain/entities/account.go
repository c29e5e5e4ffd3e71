package entities

import "time"

// SubscriptionStatus is derived from the account; it is never stored.
type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
	SubscriptionStatusNone    SubscriptionStatus = "none"
)

// Account is the per-user entitlement state (the `profiles` row).
//
// Storage model (DynamoDB):
//   - PK: id (user id)
//
// Profiles are created at signup by the identity side of the product; the
// billing service only ever mutates them through a settlement.
//
// Revision is the optimistic-lock counter. Rows written before the billing
// service existed carry no revision attribute and read as 0.
type Account struct {
	UserID             string     `json:"user_id"`
	Credits            int64      `json:"credits"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	IsSubscribed       bool       `json:"is_subscribed"`
	Revision           int64      `json:"-"`
}

// Status reports whether the subscription period is running at t.
func (a Account) Status(t time.Time) SubscriptionStatus {
	if a.SubscriptionExpiry != nil && a.SubscriptionExpiry.After(t) {
		return SubscriptionStatusActive
	}
	if a.IsSubscribed || a.SubscriptionExpiry != nil {
		return SubscriptionStatusExpired
	}
	return SubscriptionStatusNone
}

// SameState reports whether b still holds the state a was read with. It is the
// comparison behind every conditional account write.
func (a Account) SameState(b Account) bool {
	if a.UserID != b.UserID || a.Credits != b.Credits || a.Revision != b.Revision || a.IsSubscribed != b.IsSubscribed {
		return false
	}
	switch {
	case a.SubscriptionExpiry == nil && b.SubscriptionExpiry == nil:
		return true
	case a.SubscriptionExpiry == nil || b.SubscriptionExpiry == nil:
		return false
	default:
		return a.SubscriptionExpiry.Equal(*b.SubscriptionExpiry)
	}
}
