package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	ddbstore "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/ordering-service/models"
)

// ErrDuplicateCheckout signals that an order for this checkoutId was already
// persisted. Expected under at-least-once delivery; callers absorb it.
var ErrDuplicateCheckout = errors.New("checkout already processed")

// OrderRepository defines the record-store operations the ordering service
// uses. CreateOnce is the only write; orders are never updated or deleted.
type OrderRepository interface {
	CreateOnce(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, username string) ([]models.Order, error)
	FindByUserAndDate(ctx context.Context, username, orderDate string) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
}

// DynamoOrderRepository stores orders in a table keyed (username, orderDate)
// and idempotency claims in a second table keyed checkoutId.
type DynamoOrderRepository struct {
	client      *dynamodb.Client
	table       string
	claimsTable string
}

func NewDynamoOrderRepository(client *dynamodb.Client, table, claimsTable string) *DynamoOrderRepository {
	return &DynamoOrderRepository{client: client, table: table, claimsTable: claimsTable}
}

// CreateOnce writes the order and claims its checkoutId in one transaction.
// The claim put is conditional on the id being unclaimed, so a redelivered
// checkout cancels the whole transaction and no second order row appears —
// even though each ingestion stamps its own orderDate.
//
// Events without a checkoutId cannot be deduplicated and are written
// unconditionally; producers on the current wire format always set one.
func (r *DynamoOrderRepository) CreateOnce(ctx context.Context, order *models.Order) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	if order.CheckoutID == "" {
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item})
		if err != nil {
			return fmt.Errorf("dynamodb PutItem failed: %w", err)
		}
		return nil
	}

	claim, err := attributevalue.MarshalMap(map[string]string{
		"checkoutId": order.CheckoutID,
		"username":   order.Username,
		"orderDate":  order.OrderDate,
	})
	if err != nil {
		return fmt.Errorf("marshal claim: %w", err)
	}

	condition := "attribute_not_exists(checkoutId)"
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           &r.claimsTable,
				Item:                claim,
				ConditionExpression: &condition,
			}},
			{Put: &types.Put{
				TableName: &r.table,
				Item:      item,
			}},
		},
	})
	if err != nil {
		if ddbstore.IsConditionFailed(err) {
			return ErrDuplicateCheckout
		}
		return fmt.Errorf("dynamodb TransactWriteItems failed: %w", err)
	}
	return nil
}

// FindByUser queries the partition key; DynamoDB returns items in ascending
// sort-key order, so orders come back oldest first.
func (r *DynamoOrderRepository) FindByUser(ctx context.Context, username string) ([]models.Order, error) {
	keyCond := "username = :username"
	values, err := attributevalue.MarshalMap(map[string]string{":username": username})
	if err != nil {
		return nil, fmt.Errorf("marshal query values: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &r.table,
		KeyConditionExpression:    &keyCond,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb Query failed: %w", err)
	}

	orders := make([]models.Order, 0, len(out.Items))
	for _, it := range out.Items {
		var order models.Order
		if err := attributevalue.UnmarshalMap(it, &order); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// FindByUserAndDate is the point query on the composite key.
func (r *DynamoOrderRepository) FindByUserAndDate(ctx context.Context, username, orderDate string) (*models.Order, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"username":  username,
		"orderDate": orderDate,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ddbstore.ErrNotFound
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &order, nil
}

// FindAll scans the whole order table. Demo-scale only.
func (r *DynamoOrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	items, err := ddbstore.ScanAll(ctx, r.client, r.table)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(items))
	for _, it := range items {
		var order models.Order
		if err := attributevalue.UnmarshalMap(it, &order); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
