package repository

import (
	"context"
	"errors"
	"fmt"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	settleAccountIndex     = 0
	settleTransactionIndex = 1
)

// DynamoLedger joins the profile and transaction tables and settles a
// payment with one TransactWriteItems call, so the credit grant and the
// payment_id fence commit together or not at all.
type DynamoLedger struct {
	*AccountDynamoRepository
	*TransactionDynamoRepository
	ddb DynamoDBAPI
}

var _ interfaces.ILedger = (*DynamoLedger)(nil)

func NewDynamoLedger(ddb DynamoDBAPI, profilesTable, transactionsTable, transactionsUserIndex string) *DynamoLedger {
	return &DynamoLedger{
		AccountDynamoRepository:     NewAccountDynamoRepository(ddb, profilesTable),
		TransactionDynamoRepository: NewTransactionDynamoRepository(ddb, transactionsTable, transactionsUserIndex),
		ddb:                         ddb,
	}
}

func (l *DynamoLedger) Settle(ctx context.Context, prior, next entities.Account, tx entities.PaymentTransaction) error {
	put, err := l.fencedPut(tx)
	if err != nil {
		return err
	}
	items := make([]types.TransactWriteItem, 2)
	items[settleAccountIndex] = types.TransactWriteItem{Update: l.conditionalUpdate(prior, next)}
	items[settleTransactionIndex] = types.TransactWriteItem{Put: put}

	_, err = l.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return mapSettleError(err)
	}
	return nil
}

// mapSettleError reads the per-item cancellation reasons. A recorded
// payment_id wins over a stale account: retrying would not help.
func mapSettleError(err error) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return err
	}
	reasons := tce.CancellationReasons
	code := func(i int) string {
		if i < len(reasons) {
			return aws.ToString(reasons[i].Code)
		}
		return ""
	}
	switch {
	case code(settleTransactionIndex) == "ConditionalCheckFailed":
		return interfaces.ErrTransactionExists
	case code(settleAccountIndex) == "ConditionalCheckFailed":
		return interfaces.ErrStaleAccount
	case code(settleAccountIndex) == "TransactionConflict" || code(settleTransactionIndex) == "TransactionConflict":
		return interfaces.ErrStaleAccount
	default:
		return fmt.Errorf("settlement cancelled: %w", err)
	}
}
