// Package catalog is the single source of truth for plan prices and credit
// grants. Callers never supply amounts; they supply a Selector.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sasa_billing/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const (
	PlanProMonthly        = "pro_monthly"
	PlanProMonthlyUSD     = "pro_monthly_usd"
	PlanCreditTopup100    = "credit_topup_100"
	PlanCreditTopupGlobal = "credit_topup_global"

	ModeCredits      = "credits"
	ModeSubscription = "subscription"

	// SubscriptionPeriod is how far one subscription purchase extends the
	// expiry.
	SubscriptionPeriod = 30 * 24 * time.Hour
)

var ErrUnknownPlan = errors.New("unknown plan")

// Selector picks a plan either by id or by a (mode, currency) pair. When Mode
// is set it wins over PlanID.
type Selector struct {
	PlanID   string
	Mode     string
	Currency string
}

func (s Selector) IsZero() bool {
	return strings.TrimSpace(s.PlanID) == "" && strings.TrimSpace(s.Mode) == ""
}

func (s Selector) String() string {
	if m := strings.TrimSpace(s.Mode); m != "" {
		return fmt.Sprintf("mode=%s currency=%s", m, strings.TrimSpace(s.Currency))
	}
	return fmt.Sprintf("plan=%s", strings.TrimSpace(s.PlanID))
}

// Catalog resolves selectors against a fixed plan table.
type Catalog struct {
	plans map[string]entities.Plan
}

// New builds a catalog from plans. Duplicate ids are a programming error.
func New(plans ...entities.Plan) *Catalog {
	m := make(map[string]entities.Plan, len(plans))
	for _, p := range plans {
		if _, dup := m[p.ID]; dup {
			panic("catalog: duplicate plan id " + p.ID)
		}
		m[p.ID] = p
	}
	return &Catalog{plans: m}
}

// Default returns the production plan table.
func Default() *Catalog {
	return New(
		entities.Plan{ID: PlanProMonthly, Amount: decimal.NewFromInt(399), Currency: entities.CurrencyINR, Credits: 100, Kind: entities.PlanKindSubscription},
		entities.Plan{ID: PlanCreditTopup100, Amount: decimal.NewFromInt(100), Currency: entities.CurrencyINR, Credits: 100, Kind: entities.PlanKindOneTime},
		entities.Plan{ID: PlanCreditTopupGlobal, Amount: decimal.NewFromInt(2), Currency: entities.CurrencyUSD, Credits: 100, Kind: entities.PlanKindOneTime},
		entities.Plan{ID: PlanProMonthlyUSD, Amount: decimal.NewFromInt(8), Currency: entities.CurrencyUSD, Credits: 100, Kind: entities.PlanKindSubscription},
	)
}

// Get looks a plan up by exact id.
func (c *Catalog) Get(id string) (entities.Plan, error) {
	p, ok := c.plans[strings.TrimSpace(id)]
	if !ok {
		return entities.Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
	}
	return p, nil
}

// Resolve turns a selector into exactly one plan. Nothing is ever defaulted:
// an empty selector, an unknown id, mode or currency all fail.
func (c *Catalog) Resolve(sel Selector) (entities.Plan, error) {
	mode := strings.ToLower(strings.TrimSpace(sel.Mode))
	if mode == "" {
		if strings.TrimSpace(sel.PlanID) == "" {
			return entities.Plan{}, fmt.Errorf("%w: empty selector", ErrUnknownPlan)
		}
		return c.Get(sel.PlanID)
	}

	currency, err := normalizeCurrency(sel.Currency)
	if err != nil {
		return entities.Plan{}, err
	}

	var id string
	switch mode {
	case ModeCredits:
		id = PlanCreditTopup100
		if currency == entities.CurrencyUSD {
			id = PlanCreditTopupGlobal
		}
	case ModeSubscription:
		id = PlanProMonthly
		if currency == entities.CurrencyUSD {
			id = PlanProMonthlyUSD
		}
	default:
		return entities.Plan{}, fmt.Errorf("%w: mode %q", ErrUnknownPlan, sel.Mode)
	}
	return c.Get(id)
}

// Plans lists the catalog ordered by id.
func (c *Catalog) Plans() []entities.Plan {
	out := make([]entities.Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// An absent currency means the home market (INR).
func normalizeCurrency(raw string) (entities.Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(entities.CurrencyINR):
		return entities.CurrencyINR, nil
	case string(entities.CurrencyUSD):
		return entities.CurrencyUSD, nil
	default:
		return "", fmt.Errorf("%w: currency %q", ErrUnknownPlan, raw)
	}
}
