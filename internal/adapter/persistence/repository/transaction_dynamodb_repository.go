package repository

import (
	"context"
	"fmt"
	"strings"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionsTableName = "payment_transactions"
	defaultTransactionsUserIndex = "user_id-index"
)

type transactionItem struct {
	PaymentID      string `dynamodbav:"payment_id"`
	UserID         string `dynamodbav:"user_id"`
	OrderID        string `dynamodbav:"order_id"`
	PlanID         string `dynamodbav:"plan_id"`
	Amount         string `dynamodbav:"amount"`
	Currency       string `dynamodbav:"currency"`
	CreditsGranted int64  `dynamodbav:"credits_granted"`
	Status         string `dynamodbav:"status"`
	CreatedAt      string `dynamodbav:"created_at"`
}

// TransactionDynamoRepository persists PaymentTransaction rows.
//
// Table requirements:
//   - PK: payment_id (string)
//   - GSI: user_id-index (PK: user_id)
//
// payment_id is the idempotency fence: rows are only ever inserted with
// attribute_not_exists(payment_id).
type TransactionDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
	userIndex string
}

var _ interfaces.ITransactionRepository = (*TransactionDynamoRepository)(nil)

func NewTransactionDynamoRepository(ddb DynamoDBAPI, tableName, userIndex string) *TransactionDynamoRepository {
	if strings.TrimSpace(tableName) == "" {
		tableName = defaultTransactionsTableName
	}
	if strings.TrimSpace(userIndex) == "" {
		userIndex = defaultTransactionsUserIndex
	}
	return &TransactionDynamoRepository{ddb: ddb, tableName: tableName, userIndex: userIndex}
}

func (r *TransactionDynamoRepository) InsertTransactionIfAbsent(ctx context.Context, tx entities.PaymentTransaction) error {
	put, err := r.fencedPut(tx)
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                put.TableName,
		Item:                     put.Item,
		ConditionExpression:      put.ConditionExpression,
		ExpressionAttributeNames: put.ExpressionAttributeNames,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return interfaces.ErrTransactionExists
		}
		return err
	}
	return nil
}

func (r *TransactionDynamoRepository) GetTransaction(ctx context.Context, paymentID string) (entities.PaymentTransaction, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"payment_id": &types.AttributeValueMemberS{Value: paymentID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentTransaction{}, nil
	}

	var it transactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentTransaction{}, err
	}
	return fromTransactionItem(it)
}

func (r *TransactionDynamoRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]entities.PaymentTransaction, error) {
	items := make([]entities.PaymentTransaction, 0)
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(r.userIndex),
			KeyConditionExpression: aws.String("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it transactionItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			tx, err := fromTransactionItem(it)
			if err != nil {
				return nil, err
			}
			items = append(items, tx)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *TransactionDynamoRepository) fencedPut(tx entities.PaymentTransaction) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(toTransactionItem(tx))
	if err != nil {
		return nil, err
	}
	return &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#payment_id)"),
		ExpressionAttributeNames: map[string]string{
			"#payment_id": "payment_id",
		},
	}, nil
}

func toTransactionItem(tx entities.PaymentTransaction) transactionItem {
	return transactionItem{
		PaymentID:      tx.PaymentID,
		UserID:         tx.UserID,
		OrderID:        tx.OrderID,
		PlanID:         tx.PlanID,
		Amount:         tx.Amount.String(),
		Currency:       string(tx.Currency),
		CreditsGranted: tx.CreditsGranted,
		Status:         string(tx.Status),
		CreatedAt:      formatTime(tx.CreatedAt),
	}
}

func fromTransactionItem(it transactionItem) (entities.PaymentTransaction, error) {
	createdAt, ok := parseTime(it.CreatedAt)
	if !ok {
		return entities.PaymentTransaction{}, fmt.Errorf("transaction %s: invalid created_at %q", it.PaymentID, it.CreatedAt)
	}
	amount, err := decimal.NewFromString(it.Amount)
	if err != nil {
		return entities.PaymentTransaction{}, fmt.Errorf("transaction %s: invalid amount %q: %w", it.PaymentID, it.Amount, err)
	}
	return entities.PaymentTransaction{
		PaymentID:      it.PaymentID,
		UserID:         it.UserID,
		OrderID:        it.OrderID,
		PlanID:         it.PlanID,
		Amount:         amount,
		Currency:       entities.Currency(it.Currency),
		CreditsGranted: it.CreditsGranted,
		Status:         entities.TransactionStatus(it.Status),
		CreatedAt:      createdAt,
	}, nil
}
