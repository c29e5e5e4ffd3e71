package interfaces

import (
	"context"
	"errors"

	"sasa_billing/internal/domain/entities"
)

var (
	// ErrStaleAccount is returned when a conditional account write finds the
	// row no longer in the state the caller read.
	ErrStaleAccount = errors.New("account state changed since read")
	// ErrTransactionExists is returned when a payment_id is already recorded.
	ErrTransactionExists = errors.New("transaction already recorded")
)

// IAccountRepository abstracts persistence of the per-user entitlement row.
//
// GetAccount returns a zero Account (empty UserID) when the profile does not
// exist. UpdateAccount fails with ErrStaleAccount if the stored row no
// longer matches prior.
type IAccountRepository interface {
	GetAccount(ctx context.Context, userID string) (entities.Account, error)
	UpdateAccount(ctx context.Context, prior, next entities.Account) error
}

// ITransactionRepository abstracts the append-only payment ledger.
//
// GetTransaction returns a zero PaymentTransaction when payment_id is unknown.
type ITransactionRepository interface {
	InsertTransactionIfAbsent(ctx context.Context, tx entities.PaymentTransaction) error
	GetTransaction(ctx context.Context, paymentID string) (entities.PaymentTransaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]entities.PaymentTransaction, error)
}

// ILedger is the entitlement ledger: accounts and transactions plus the
// atomic settlement that writes both.
//
// Settle applies the account change and records tx in a single atomic write.
// It fails with ErrStaleAccount or ErrTransactionExists and then has no effect.
type ILedger interface {
	IAccountRepository
	ITransactionRepository
	Settle(ctx context.Context, prior, next entities.Account, tx entities.PaymentTransaction) error
}
