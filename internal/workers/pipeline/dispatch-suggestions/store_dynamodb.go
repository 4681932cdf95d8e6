// internal/workers/pipeline/dispatch-suggestions/store_dynamodb.go
package dispatchsuggestions

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"dining-concierge/internal/common/config"
	"dining-concierge/internal/models"
)

type DynamoDBService interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBStore reads restaurants keyed by business id.
type DynamoDBStore struct {
	client      DynamoDBService
	table       string
	keyAttr     string
	nameAttr    string
	addressAttr string
}

func NewDynamoDBStore(client DynamoDBService, cfg config.DynamoDBConfig) *DynamoDBStore {
	return &DynamoDBStore{
		client:      client,
		table:       cfg.Table,
		keyAttr:     cfg.KeyAttribute,
		nameAttr:    cfg.NameAttribute,
		addressAttr: cfg.AddressAttribute,
	}
}

func (s *DynamoDBStore) Lookup(ctx context.Context, businessID string) (*models.RestaurantDetail, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			s.keyAttr: &types.AttributeValueMemberS{Value: businessID},
		},
		ProjectionExpression: aws.String("#n, #a"),
		ExpressionAttributeNames: map[string]string{
			"#n": s.nameAttr,
			"#a": s.addressAttr,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get %s: %w", businessID, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrRestaurantNotFound
	}

	return &models.RestaurantDetail{
		BusinessID: businessID,
		Name:       attributeString(out.Item[s.nameAttr]),
		Address:    attributeString(out.Item[s.addressAttr]),
	}, nil
}

// attributeString flattens a string or a list of strings, which is how
// multi-line addresses are stored.
func attributeString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberL:
		parts := make([]string, 0, len(v.Value))
		for _, item := range v.Value {
			if s := attributeString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
