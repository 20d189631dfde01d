package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"swn-microservices/services/product-service/models"
)

const (
	productKeyPrefix = "product:detail:"
	listKeyPrefix    = "products:v:"
	versionKey       = "products:version"
)

// ProductCache is a read-through cache in front of the catalog table. List
// results are keyed under a version counter; invalidation bumps the counter
// so stale lists simply stop being addressable and expire on their TTL.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(redisURL string, ttl time.Duration) (*ProductCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &ProductCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (pc *ProductCache) Close() error {
	return pc.client.Close()
}

func (pc *ProductCache) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	data, err := pc.client.Get(ctx, productKeyPrefix+id).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		zap.L().Warn("failed to unmarshal cached product", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return &product, true
}

func (pc *ProductCache) SetProductAsync(product *models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		zap.L().Warn("failed to marshal product for cache", zap.Error(err))
		return
	}
	id := product.ID
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pc.client.Set(bgCtx, productKeyPrefix+id, data, pc.ttl).Err(); err != nil {
			zap.L().Warn("failed to cache product", zap.String("id", id), zap.Error(err))
		}
	}()
}

func (pc *ProductCache) GetProductList(ctx context.Context, category string) ([]models.Product, bool) {
	version, err := pc.getVersion(ctx)
	if err != nil {
		return nil, false
	}
	data, err := pc.client.Get(ctx, pc.listKey(version, category)).Result()
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		zap.L().Warn("failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

func (pc *ProductCache) SetProductListAsync(category string, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		zap.L().Warn("failed to marshal product list for cache", zap.Error(err))
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		version, err := pc.getVersion(bgCtx)
		if err != nil {
			return
		}
		if err := pc.client.Set(bgCtx, pc.listKey(version, category), data, pc.ttl).Err(); err != nil {
			zap.L().Warn("failed to cache product list", zap.Error(err))
		}
	}()
}

// InvalidateProduct drops the detail entry and bumps the list version after
// any write to the catalog.
func (pc *ProductCache) InvalidateProduct(ctx context.Context, id string) {
	if err := pc.client.Incr(ctx, versionKey).Err(); err != nil {
		zap.L().Error("failed to bump product cache version", zap.Error(err))
	}
	if id == "" {
		return
	}
	if err := pc.client.Del(ctx, productKeyPrefix+id).Err(); err != nil {
		zap.L().Warn("failed to delete cached product", zap.String("id", id), zap.Error(err))
	}
}

func (pc *ProductCache) listKey(version int64, category string) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("%s%d:c:%s", listKeyPrefix, version, category)
}

func (pc *ProductCache) getVersion(ctx context.Context) (int64, error) {
	ver, err := pc.client.Get(ctx, versionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := pc.client.Set(ctx, versionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("failed to read product cache version: %w", err)
}
