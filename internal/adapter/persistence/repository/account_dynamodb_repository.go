package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProfilesTableName = "profiles"

type profileItem struct {
	ID                 string `dynamodbav:"id"`
	Credits            int64  `dynamodbav:"credits"`
	SubscriptionExpiry string `dynamodbav:"subscription_expiry,omitempty"`
	IsSubscribed       bool   `dynamodbav:"is_subscribed"`
	Revision           int64  `dynamodbav:"revision"`
	UpdatedAt          string `dynamodbav:"updated_at,omitempty"`
}

// AccountDynamoRepository reads and conditionally updates profiles.
//
// Table requirements:
//   - PK: id (string, user id)
//
// Rows are created at signup elsewhere; this repository never inserts one.
type AccountDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IAccountRepository = (*AccountDynamoRepository)(nil)

func NewAccountDynamoRepository(ddb DynamoDBAPI, tableName string) *AccountDynamoRepository {
	if strings.TrimSpace(tableName) == "" {
		tableName = defaultProfilesTableName
	}
	return &AccountDynamoRepository{ddb: ddb, tableName: tableName, now: time.Now}
}

func (r *AccountDynamoRepository) GetAccount(ctx context.Context, userID string) (entities.Account, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Account{}, err
	}
	if len(out.Item) == 0 {
		return entities.Account{}, nil
	}

	var it profileItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Account{}, err
	}
	return fromProfileItem(it), nil
}

func (r *AccountDynamoRepository) UpdateAccount(ctx context.Context, prior, next entities.Account) error {
	u := r.conditionalUpdate(prior, next)
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 u.TableName,
		Key:                       u.Key,
		ConditionExpression:       u.ConditionExpression,
		UpdateExpression:          u.UpdateExpression,
		ExpressionAttributeNames:  u.ExpressionAttributeNames,
		ExpressionAttributeValues: u.ExpressionAttributeValues,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return interfaces.ErrStaleAccount
		}
		return err
	}
	return nil
}

// conditionalUpdate builds the compare-and-set write for prior -> next. The
// row must still hold prior's credits, revision, is_subscribed and
// subscription_expiry. Rows that predate a billing column match its zero
// value (0, false, no expiry).
func (r *AccountDynamoRepository) conditionalUpdate(prior, next entities.Account) *types.Update {
	names := map[string]string{
		"#id":            "id",
		"#credits":       "credits",
		"#expiry":        "subscription_expiry",
		"#is_subscribed": "is_subscribed",
		"#rev":           "revision",
		"#updated_at":    "updated_at",
	}
	values := map[string]types.AttributeValue{
		":credits":         &types.AttributeValueMemberN{Value: strconv.FormatInt(next.Credits, 10)},
		":is_subscribed":   &types.AttributeValueMemberBOOL{Value: next.IsSubscribed},
		":next_rev":        &types.AttributeValueMemberN{Value: strconv.FormatInt(prior.Revision+1, 10)},
		":prev_credits":    &types.AttributeValueMemberN{Value: strconv.FormatInt(prior.Credits, 10)},
		":prev_rev":        &types.AttributeValueMemberN{Value: strconv.FormatInt(prior.Revision, 10)},
		":prev_subscribed": &types.AttributeValueMemberBOOL{Value: prior.IsSubscribed},
		":updated_at":      &types.AttributeValueMemberS{Value: formatTime(r.now())},
	}

	set := []string{
		"#credits = :credits",
		"#is_subscribed = :is_subscribed",
		"#rev = :next_rev",
		"#updated_at = :updated_at",
	}
	if next.SubscriptionExpiry != nil {
		values[":expiry"] = &types.AttributeValueMemberS{Value: formatTime(*next.SubscriptionExpiry)}
		set = append(set, "#expiry = :expiry")
	}

	creditsCond := "#credits = :prev_credits"
	if prior.Credits == 0 {
		creditsCond = "(attribute_not_exists(#credits) OR #credits = :prev_credits)"
	}
	revCond := "#rev = :prev_rev"
	if prior.Revision == 0 {
		revCond = "(attribute_not_exists(#rev) OR #rev = :prev_rev)"
	}
	subscribedCond := "#is_subscribed = :prev_subscribed"
	if !prior.IsSubscribed {
		subscribedCond = "(attribute_not_exists(#is_subscribed) OR #is_subscribed = :prev_subscribed)"
	}
	expiryCond := "attribute_not_exists(#expiry)"
	if prior.SubscriptionExpiry != nil {
		values[":prev_expiry"] = &types.AttributeValueMemberS{Value: formatTime(*prior.SubscriptionExpiry)}
		expiryCond = "#expiry = :prev_expiry"
	}
	cond := strings.Join([]string{"attribute_exists(#id)", creditsCond, revCond, subscribedCond, expiryCond}, " AND ")

	return &types.Update{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: prior.UserID},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(set, ", ")),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

func fromProfileItem(it profileItem) entities.Account {
	acc := entities.Account{
		UserID:       it.ID,
		Credits:      it.Credits,
		IsSubscribed: it.IsSubscribed,
		Revision:     it.Revision,
	}
	if exp, ok := parseTime(it.SubscriptionExpiry); ok {
		acc.SubscriptionExpiry = &exp
	}
	return acc
}
