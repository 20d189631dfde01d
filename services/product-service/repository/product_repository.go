package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	ddbstore "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/product-service/models"
)

// ProductRepository abstracts catalog persistence so controllers and tests
// never touch the DynamoDB client directly.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// DynamoProductRepository stores products in a table with primary key `id`
// (string uuid).
type DynamoProductRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoProductRepository(client *dynamodb.Client, table string) *DynamoProductRepository {
	return &DynamoProductRepository{client: client, table: table}
}

// GetByID returns ddbstore.ErrNotFound when no product has the given id.
func (r *DynamoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
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
	var product models.Product
	if err := attributevalue.UnmarshalMap(out.Item, &product); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &product, nil
}

func (r *DynamoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	items, err := ddbstore.ScanAll(ctx, r.client, r.table)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(items))
	for _, it := range items {
		var product models.Product
		if err := attributevalue.UnmarshalMap(it, &product); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		products = append(products, product)
	}
	return products, nil
}

// GetByCategory filters server-side with a contains() expression, so a
// product tagged "Phone Accessories" matches category=Phone.
func (r *DynamoProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	catVal, err := attributevalue.Marshal(category)
	if err != nil {
		return nil, fmt.Errorf("marshal category: %w", err)
	}

	filterExpr := "contains (category, :category)"
	input := &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: &filterExpr,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": catVal,
		},
	}

	var products []models.Product
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan by category failed: %w", err)
		}
		for _, it := range page.Items {
			var product models.Product
			if err := attributevalue.UnmarshalMap(it, &product); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			products = append(products, product)
		}
	}
	return products, nil
}

// Create assigns the id; any client-supplied id is overwritten.
func (r *DynamoProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New().String()

	item, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// Update applies a partial SET built from the provided attributes and returns
// the product as stored after the update. Attribute names are aliased to stay
// clear of reserved words like "name".
func (r *DynamoProductRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	expr := "SET "
	names := make(map[string]string, len(updates))
	values := make(map[string]types.AttributeValue, len(updates))
	i := 0
	for attr, val := range updates {
		av, err := attributevalue.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshal update value: %w", err)
		}
		namePh := fmt.Sprintf("#a%d", i)
		valuePh := fmt.Sprintf(":v%d", i)
		if i > 0 {
			expr += ", "
		}
		expr += fmt.Sprintf("%s = %s", namePh, valuePh)
		names[namePh] = attr
		values[valuePh] = av
		i++
	}

	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	condExpr := "attribute_exists(id)"
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       key,
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       &condExpr,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if ddbstore.IsConditionFailed(err) {
			return nil, ddbstore.ErrNotFound
		}
		return nil, fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}

	var product models.Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &product); err != nil {
		return nil, fmt.Errorf("unmarshal updated item: %w", err)
	}
	return &product, nil
}

func (r *DynamoProductRepository) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
