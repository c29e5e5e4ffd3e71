// Package memory is an in-process ledger with the same conditional-write
// semantics as the DynamoDB repositories. It backs local runs
// (LEDGER_BACKEND=memory) and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"
)

type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]entities.Account
	txs      map[string]entities.PaymentTransaction
}

var _ interfaces.ILedger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]entities.Account),
		txs:      make(map[string]entities.PaymentTransaction),
	}
}

// PutAccount creates or replaces a profile unconditionally, the way signup
// does.
func (l *Ledger) PutAccount(acc entities.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[acc.UserID] = cloneAccount(acc)
}

func (l *Ledger) GetAccount(_ context.Context, userID string) (entities.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[userID]
	if !ok {
		return entities.Account{}, nil
	}
	return cloneAccount(acc), nil
}

func (l *Ledger) UpdateAccount(_ context.Context, prior, next entities.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkAccountLocked(prior); err != nil {
		return err
	}
	l.writeAccountLocked(prior.UserID, next)
	return nil
}

func (l *Ledger) InsertTransactionIfAbsent(_ context.Context, tx entities.PaymentTransaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.txs[tx.PaymentID]; ok {
		return interfaces.ErrTransactionExists
	}
	l.txs[tx.PaymentID] = tx
	return nil
}

func (l *Ledger) GetTransaction(_ context.Context, paymentID string) (entities.PaymentTransaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.txs[paymentID], nil
}

func (l *Ledger) ListTransactionsByUser(_ context.Context, userID string) ([]entities.PaymentTransaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]entities.PaymentTransaction, 0)
	for _, tx := range l.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return strings.Compare(out[i].PaymentID, out[j].PaymentID) < 0
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Settle checks both conditions before writing either, so a failure leaves
// the ledger untouched.
func (l *Ledger) Settle(_ context.Context, prior, next entities.Account, tx entities.PaymentTransaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkAccountLocked(prior); err != nil {
		return err
	}
	if _, ok := l.txs[tx.PaymentID]; ok {
		return interfaces.ErrTransactionExists
	}
	l.writeAccountLocked(prior.UserID, next)
	l.txs[tx.PaymentID] = tx
	return nil
}

func (l *Ledger) checkAccountLocked(prior entities.Account) error {
	stored, ok := l.accounts[prior.UserID]
	if !ok || !stored.SameState(prior) {
		return interfaces.ErrStaleAccount
	}
	return nil
}

func (l *Ledger) writeAccountLocked(userID string, next entities.Account) {
	next.UserID = userID
	l.accounts[userID] = cloneAccount(next)
}

func cloneAccount(acc entities.Account) entities.Account {
	if acc.SubscriptionExpiry != nil {
		exp := *acc.SubscriptionExpiry
		acc.SubscriptionExpiry = &exp
	}
	return acc
}
