package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
)

const (
	DefaultSettlementAttempts = 5

	outcomeSettled          = "settled"
	outcomeDuplicate        = "duplicate"
	outcomeInvalidSignature = "invalid_signature"
	outcomeMismatch         = "plan_mismatch"
	outcomeConflict         = "conflict"
)

// VerifyPaymentInput is what the checkout widget hands back after a payment.
// Selector is optional; when present it must agree with the order.
type VerifyPaymentInput struct {
	Selector  catalog.Selector
	PaymentID string
	OrderID   string
	Signature string
}

// SettlementResult is the account state right after a settlement.
type SettlementResult struct {
	PaymentID          string
	PlanID             string
	Credits            int64
	CreditsGranted     int64
	SubscriptionExpiry *time.Time
	IsSubscribed       bool
}

// IPaymentVerificationUseCase turns a signed gateway payment into
// entitlements, exactly once per payment_id.
//
// Steps, all terminal on failure and none mutating anything before the last:
//   - reject incomplete input
//   - reject a payment_id that is already in the ledger
//   - check the HMAC signature, or confirm the payment with the provider
//     when the gateway implements IPaymentConfirmer
//   - re-derive the plan from the gateway order and cross-check it
//   - settle: conditional account update plus ledger insert, atomically
type IPaymentVerificationUseCase interface {
	VerifyAndSettle(ctx context.Context, identity entities.Identity, in VerifyPaymentInput) (SettlementResult, error)
}

type PaymentVerificationUseCase struct {
	ledger      interfaces.ILedger
	gateway     interfaces.IPaymentGateway
	catalog     *catalog.Catalog
	secret      string
	maxAttempts int
	metrics     interfaces.IPaymentMetrics
	now         func() time.Time
}

var _ IPaymentVerificationUseCase = (*PaymentVerificationUseCase)(nil)

type VerificationOption func(*PaymentVerificationUseCase)

// WithMaxAttempts bounds the optimistic-concurrency retry loop.
func WithMaxAttempts(n int) VerificationOption {
	return func(u *PaymentVerificationUseCase) {
		if n > 0 {
			u.maxAttempts = n
		}
	}
}

func WithClock(now func() time.Time) VerificationOption {
	return func(u *PaymentVerificationUseCase) {
		if now != nil {
			u.now = now
		}
	}
}

func WithMetrics(m interfaces.IPaymentMetrics) VerificationOption {
	return func(u *PaymentVerificationUseCase) {
		if m != nil {
			u.metrics = m
		}
	}
}

func NewPaymentVerificationUseCase(
	ledger interfaces.ILedger,
	gateway interfaces.IPaymentGateway,
	cat *catalog.Catalog,
	signatureSecret string,
	opts ...VerificationOption,
) *PaymentVerificationUseCase {
	u := &PaymentVerificationUseCase{
		ledger:      ledger,
		gateway:     gateway,
		catalog:     cat,
		secret:      signatureSecret,
		maxAttempts: DefaultSettlementAttempts,
		metrics:     noopMetrics{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *PaymentVerificationUseCase) VerifyAndSettle(ctx context.Context, identity entities.Identity, in VerifyPaymentInput) (SettlementResult, error) {
	userID := strings.TrimSpace(identity.UserID)
	if userID == "" {
		return SettlementResult{}, ErrUnauthorized
	}
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.Signature = strings.TrimSpace(in.Signature)

	logger := log.With().
		Str("user_id", userID).
		Str("order_id", in.OrderID).
		Str("payment_id", in.PaymentID).
		Logger()
	logger.Info().Msg("[payment][usecase] verify start")

	confirmer, confirmsWithProvider := u.gateway.(interfaces.IPaymentConfirmer)
	if in.PaymentID == "" || in.OrderID == "" || (in.Signature == "" && !confirmsWithProvider) {
		logger.Warn().Msg("[payment][usecase] incomplete verification data")
		return SettlementResult{}, ErrIncompleteVerificationData
	}

	existing, err := u.ledger.GetTransaction(ctx, in.PaymentID)
	if err != nil {
		logger.Error().Err(err).Msg("[payment][usecase] transaction lookup failed")
		return SettlementResult{}, fmt.Errorf("lookup transaction: %w", err)
	}
	if existing.PaymentID != "" {
		logger.Warn().Str("owner", existing.UserID).Msg("[payment][usecase] payment already processed")
		u.metrics.ObserveSettlement(existing.PlanID, outcomeDuplicate)
		return SettlementResult{}, ErrDuplicatePayment
	}

	if u.gateway == nil || (!confirmsWithProvider && u.secret == "") {
		logger.Error().Msg("[payment][usecase] gateway not configured")
		return SettlementResult{}, ErrGatewayNotConfigured
	}
	if confirmsWithProvider {
		if err := confirmer.ConfirmPayment(ctx, in.OrderID, in.PaymentID); err != nil {
			if errors.Is(err, interfaces.ErrPaymentNotConfirmed) {
				logger.Warn().Err(err).Msg("[payment][usecase] provider did not confirm payment")
				u.metrics.ObserveSettlement("unknown", outcomeInvalidSignature)
				return SettlementResult{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
			}
			logger.Error().Err(err).Msg("[payment][usecase] provider confirmation failed")
			return SettlementResult{}, fmt.Errorf("%w: %v", ErrOrderLookupFailed, err)
		}
	} else if !VerifySignature(u.secret, in.OrderID, in.PaymentID, in.Signature) {
		logger.Warn().Msg("[payment][usecase] signature mismatch")
		u.metrics.ObserveSettlement("unknown", outcomeInvalidSignature)
		return SettlementResult{}, ErrInvalidSignature
	}

	plan, err := u.resolveOrderPlan(ctx, userID, in)
	if err != nil {
		logger.Warn().Err(err).Msg("[payment][usecase] order/plan check failed")
		if errors.Is(err, ErrPlanMismatch) {
			u.metrics.ObserveSettlement("unknown", outcomeMismatch)
		}
		return SettlementResult{}, err
	}
	logger = logger.With().Str("plan_id", plan.ID).Logger()

	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		acc, err := u.ledger.GetAccount(ctx, userID)
		if err != nil {
			logger.Error().Err(err).Msg("[payment][usecase] account read failed")
			return SettlementResult{}, fmt.Errorf("read account: %w", err)
		}
		if acc.UserID == "" {
			logger.Error().Msg("[payment][usecase] profile not found")
			return SettlementResult{}, ErrProfileNotFound
		}

		now := u.now().UTC()
		next := ApplyPlan(acc, plan, now)
		tx := entities.PaymentTransaction{
			PaymentID:      in.PaymentID,
			UserID:         userID,
			OrderID:        in.OrderID,
			PlanID:         plan.ID,
			Amount:         plan.Amount,
			Currency:       plan.Currency,
			CreditsGranted: plan.Credits,
			Status:         entities.TransactionStatusSuccess,
			CreatedAt:      now,
		}

		err = u.ledger.Settle(ctx, acc, next, tx)
		switch {
		case err == nil:
			logger.Info().
				Int("attempt", attempt).
				Int64("credits", next.Credits).
				Bool("is_subscribed", next.IsSubscribed).
				Msg("[payment][usecase] settlement committed")
			u.metrics.ObserveSettlement(plan.ID, outcomeSettled)
			return SettlementResult{
				PaymentID:          in.PaymentID,
				PlanID:             plan.ID,
				Credits:            next.Credits,
				CreditsGranted:     plan.Credits,
				SubscriptionExpiry: next.SubscriptionExpiry,
				IsSubscribed:       next.IsSubscribed,
			}, nil
		case errors.Is(err, interfaces.ErrTransactionExists):
			logger.Warn().Int("attempt", attempt).Msg("[payment][usecase] payment settled concurrently")
			u.metrics.ObserveSettlement(plan.ID, outcomeDuplicate)
			return SettlementResult{}, ErrDuplicatePayment
		case errors.Is(err, interfaces.ErrStaleAccount):
			logger.Warn().Int("attempt", attempt).Msg("[payment][usecase] account changed; re-reading")
			u.metrics.ObserveSettlementConflict()
		default:
			logger.Error().Err(err).Msg("[payment][usecase] settlement failed")
			return SettlementResult{}, fmt.Errorf("settle: %w", err)
		}
	}

	logger.Error().Int("attempts", u.maxAttempts).Msg("[payment][usecase] settlement attempts exhausted")
	u.metrics.ObserveSettlement(plan.ID, outcomeConflict)
	return SettlementResult{}, ErrConcurrencyConflict
}

// resolveOrderPlan reads the plan back from the order notes, so the plan
// chosen at checkout is the one settled.
func (u *PaymentVerificationUseCase) resolveOrderPlan(ctx context.Context, userID string, in VerifyPaymentInput) (entities.Plan, error) {
	order, err := u.gateway.FetchOrder(ctx, in.OrderID)
	if err != nil {
		return entities.Plan{}, fmt.Errorf("%w: %v", ErrOrderLookupFailed, err)
	}
	if order.ID != "" && order.ID != in.OrderID {
		return entities.Plan{}, fmt.Errorf("%w: gateway returned order %s", ErrPlanMismatch, order.ID)
	}
	if order.Notes.UserID != userID {
		return entities.Plan{}, fmt.Errorf("%w: order belongs to another user", ErrPlanMismatch)
	}

	plan, err := u.catalog.Get(order.Notes.PlanID)
	if err != nil {
		return entities.Plan{}, fmt.Errorf("%w: %v", ErrPlanMismatch, err)
	}
	if order.AmountMinor != plan.MinorAmount() || !strings.EqualFold(string(order.Currency), string(plan.Currency)) {
		return entities.Plan{}, fmt.Errorf("%w: order charged %d %s, plan %s costs %d %s",
			ErrPlanMismatch, order.AmountMinor, order.Currency, plan.ID, plan.MinorAmount(), plan.Currency)
	}

	if !in.Selector.IsZero() {
		claimed, err := u.catalog.Resolve(in.Selector)
		if err != nil {
			return entities.Plan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
		if claimed.ID != plan.ID {
			return entities.Plan{}, fmt.Errorf("%w: selector resolves to %s, order is for %s", ErrPlanMismatch, claimed.ID, plan.ID)
		}
	}
	return plan, nil
}

// ApplyPlan returns the account after granting plan at now. Credits are
// added; a subscription extends from the later of the current expiry and now,
// so a renewal never shortens a running period. One-time purchases leave the
// subscription untouched.
func ApplyPlan(acc entities.Account, plan entities.Plan, now time.Time) entities.Account {
	next := acc
	next.Credits = acc.Credits + plan.Credits
	next.Revision = acc.Revision + 1
	if plan.IsSubscription() {
		base := now
		if acc.SubscriptionExpiry != nil && acc.SubscriptionExpiry.After(now) {
			base = *acc.SubscriptionExpiry
		}
		expiry := base.Add(catalog.SubscriptionPeriod).UTC()
		next.SubscriptionExpiry = &expiry
		next.IsSubscribed = true
	}
	return next
}
