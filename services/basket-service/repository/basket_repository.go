package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	ddbstore "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/basket-service/models"
)

// BasketRepository defines the record-store operations the basket service
// uses. Get returns ddbstore.ErrNotFound when the user has no basket.
type BasketRepository interface {
	Get(ctx context.Context, username string) (*models.Basket, error)
	GetAll(ctx context.Context) ([]models.Basket, error)
	Save(ctx context.Context, basket *models.Basket) error
	Delete(ctx context.Context, username string) error
}

// DynamoBasketRepository stores baskets in a table with primary key
// `username` (string). Baskets are created implicitly on first Save.
type DynamoBasketRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoBasketRepository(client *dynamodb.Client, table string) *DynamoBasketRepository {
	return &DynamoBasketRepository{client: client, table: table}
}

func (r *DynamoBasketRepository) Get(ctx context.Context, username string) (*models.Basket, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"username": username})
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
	var basket models.Basket
	if err := attributevalue.UnmarshalMap(out.Item, &basket); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &basket, nil
}

func (r *DynamoBasketRepository) GetAll(ctx context.Context) ([]models.Basket, error) {
	items, err := ddbstore.ScanAll(ctx, r.client, r.table)
	if err != nil {
		return nil, err
	}
	baskets := make([]models.Basket, 0, len(items))
	for _, it := range items {
		var basket models.Basket
		if err := attributevalue.UnmarshalMap(it, &basket); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		baskets = append(baskets, basket)
	}
	return baskets, nil
}

func (r *DynamoBasketRepository) Save(ctx context.Context, basket *models.Basket) error {
	item, err := attributevalue.MarshalMap(basket)
	if err != nil {
		return fmt.Errorf("marshal basket: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoBasketRepository) Delete(ctx context.Context, username string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"username": username})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
