// Package dynamostore keeps payment tokens in a DynamoDB table whose
// partition key is the string attribute paymentToken.
package dynamostore

import (
	"context"
	"errors"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/infra"
	pkgconfig "payment-3p/internal/pkg/config"
	"payment-3p/internal/usecase/shared"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// compile-time interface check
var _ shared.TokenStore = (*Store)(nil)

const (
	keyAttr    = "paymentToken"
	amountAttr = "amount"
)

// API is the slice of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type item struct {
	PaymentToken string `dynamodbav:"paymentToken"`
	Amount       int64  `dynamodbav:"amount"`
}

type Store struct {
	api   API
	table string
}

// Connect loads the default AWS credential chain for cfg.Region. A non-empty
// cfg.Endpoint points the client at DynamoDB Local or LocalStack.
func Connect(ctx context.Context, cfg pkgconfig.DynamoConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load aws config", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(client, cfg.TableName), nil
}

func New(api API, table string) *Store {
	return &Store{
		api:   api,
		table: table,
	}
}

func (s *Store) Get(ctx context.Context, id paymenttoken.ID) (*paymenttoken.Token, bool, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, infra.WrapRepoErr("failed to get payment token", err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, false, infra.WrapRepoErr("failed to decode payment token", err)
	}
	amount, err := paymenttoken.NewAmount(it.Amount)
	if err != nil {
		return nil, false, infra.WrapRepoErr("stored payment token is invalid", err, infra.KindCorruptRecord)
	}
	return paymenttoken.Reconstruct(id, amount), true, nil
}

func (s *Store) PutIfAbsent(ctx context.Context, token *paymenttoken.Token) (bool, error) {
	av, err := attributevalue.MarshalMap(item{
		PaymentToken: token.ID().String(),
		Amount:       token.Amount().Minor(),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to encode payment token", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(" + keyAttr + ")"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to put payment token", err)
	}
	return true, nil
}

func (s *Store) CompareAndSwapAmount(ctx context.Context, id paymenttoken.ID, expected, next paymenttoken.Amount) (bool, error) {
	exp, err := attributevalue.Marshal(expected.Minor())
	if err != nil {
		return false, infra.WrapRepoErr("failed to encode amount", err)
	}
	nxt, err := attributevalue.Marshal(next.Minor())
	if err != nil {
		return false, infra.WrapRepoErr("failed to encode amount", err)
	}

	// the equality check also fails on a missing item
	_, err = s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.table),
		Key:                      keyOf(id),
		UpdateExpression:         aws.String("SET #amount = :next"),
		ConditionExpression:      aws.String("#amount = :expected"),
		ExpressionAttributeNames: map[string]string{"#amount": amountAttr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": exp,
			":next":     nxt,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to update payment token amount", err)
	}
	return true, nil
}

func (s *Store) DeleteIfPresent(ctx context.Context, id paymenttoken.ID) (bool, error) {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 keyOf(id),
		ConditionExpression: aws.String("attribute_exists(" + keyAttr + ")"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to delete payment token", err)
	}
	return true, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return infra.WrapRepoErr("dynamodb table check failed", err)
	}
	return nil
}

func keyOf(id paymenttoken.ID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: id.String()},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
