package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"sasa_billing/internal/domain/catalog"
	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
)

// AccountSummary is the caller's entitlement state with its derived status.
type AccountSummary struct {
	Account entities.Account
	Status  entities.SubscriptionStatus
}

// IAccountUseCase is the read side of billing: balance, history and prices.
type IAccountUseCase interface {
	GetAccount(ctx context.Context, identity entities.Identity) (AccountSummary, error)
	ListPayments(ctx context.Context, identity entities.Identity) ([]entities.PaymentTransaction, error)
	ListPlans() []entities.Plan
}

type AccountUseCase struct {
	ledger  interfaces.ILedger
	catalog *catalog.Catalog
	now     func() time.Time
}

var _ IAccountUseCase = (*AccountUseCase)(nil)

func NewAccountUseCase(ledger interfaces.ILedger, cat *catalog.Catalog) *AccountUseCase {
	return &AccountUseCase{ledger: ledger, catalog: cat, now: time.Now}
}

func (u *AccountUseCase) GetAccount(ctx context.Context, identity entities.Identity) (AccountSummary, error) {
	userID := strings.TrimSpace(identity.UserID)
	if userID == "" {
		return AccountSummary{}, ErrUnauthorized
	}
	acc, err := u.ledger.GetAccount(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("[account][usecase] account read failed")
		return AccountSummary{}, fmt.Errorf("read account: %w", err)
	}
	if acc.UserID == "" {
		return AccountSummary{}, ErrProfileNotFound
	}
	return AccountSummary{Account: acc, Status: acc.Status(u.now())}, nil
}

// ListPayments returns the caller's settled payments, newest first.
func (u *AccountUseCase) ListPayments(ctx context.Context, identity entities.Identity) ([]entities.PaymentTransaction, error) {
	userID := strings.TrimSpace(identity.UserID)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	txs, err := u.ledger.ListTransactionsByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("[account][usecase] transaction list failed")
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	return txs, nil
}

func (u *AccountUseCase) ListPlans() []entities.Plan {
	return u.catalog.Plans()
}
