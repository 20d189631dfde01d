package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	aws_pkg "swn-microservices/pkg/aws"
	ddbstore "swn-microservices/pkg/dynamodb"
	apperrors "swn-microservices/services/common/errors"
	"swn-microservices/services/common/response"

	"swn-microservices/services/product-service/models"
	"swn-microservices/services/product-service/repository"
)

// ProductCache is the read-through cache the controller consults before the
// table. Satisfied by cache.ProductCache.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, bool)
	SetProductAsync(product *models.Product)
	GetProductList(ctx context.Context, category string) ([]models.Product, bool)
	SetProductListAsync(category string, products []models.Product)
	InvalidateProduct(ctx context.Context, id string)
}

// ProductController serves the catalog CRUD surface. The cache is optional;
// a nil cache turns every read into a table read.
type ProductController struct {
	repo    repository.ProductRepository
	cache   ProductCache
	metrics *aws_pkg.MetricsClient
}

func NewProductController(repo repository.ProductRepository, productCache ProductCache, metrics *aws_pkg.MetricsClient) *ProductController {
	return &ProductController{repo: repo, cache: productCache, metrics: metrics}
}

func operationMessage(c *gin.Context) string {
	return fmt.Sprintf("Successfully finished operation: %q", c.Request.Method)
}

func (pc *ProductController) countCacheResult(hit bool) {
	if pc.metrics == nil || !pc.metrics.IsEnabled() {
		return
	}
	go func() {
		metricCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dims := map[string]string{"Service": "product-service"}
		name := aws_pkg.MetricCacheMisses
		if hit {
			name = aws_pkg.MetricCacheHits
		}
		_ = pc.metrics.RecordCount(metricCtx, name, dims)
	}()
}

// GetProduct returns one product by id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id := c.Param("id")

	if pc.cache != nil {
		if product, ok := pc.cache.GetProduct(c.Request.Context(), id); ok {
			pc.countCacheResult(true)
			response.OK(c, operationMessage(c), product)
			return
		}
		pc.countCacheResult(false)
	}

	product, err := pc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ddbstore.ErrNotFound) {
			response.Fail(c, apperrors.NotFound("product not found: "+id, err))
			return
		}
		zap.L().Error("get product failed", zap.String("id", id), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to get product", err))
		return
	}

	if pc.cache != nil {
		pc.cache.SetProductAsync(product)
	}
	response.OK(c, operationMessage(c), product)
}

// GetAllProducts lists the catalog; ?category= narrows by category substring.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	category := c.Query("category")

	if pc.cache != nil {
		if products, ok := pc.cache.GetProductList(c.Request.Context(), category); ok {
			pc.countCacheResult(true)
			response.OK(c, operationMessage(c), products)
			return
		}
		pc.countCacheResult(false)
	}

	var (
		products []models.Product
		err      error
	)
	if category != "" {
		products, err = pc.repo.GetByCategory(c.Request.Context(), category)
	} else {
		products, err = pc.repo.GetAll(c.Request.Context())
	}
	if err != nil {
		zap.L().Error("list products failed", zap.String("category", category), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to list products", err))
		return
	}

	if pc.cache != nil {
		pc.cache.SetProductListAsync(category, products)
	}
	response.OK(c, operationMessage(c), products)
}

// CreateProduct adds a catalog entry; the id is generated server-side.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		response.Fail(c, apperrors.Validation("invalid product payload", err))
		return
	}
	if product.Name == "" {
		response.Fail(c, apperrors.Validation("name is required", nil))
		return
	}
	if product.Price < 0 {
		response.Fail(c, apperrors.Validation("price must not be negative", nil))
		return
	}

	if err := pc.repo.Create(c.Request.Context(), &product); err != nil {
		zap.L().Error("create product failed", zap.String("name", product.Name), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to create product", err))
		return
	}

	if pc.cache != nil {
		pc.cache.InvalidateProduct(c.Request.Context(), "")
	}
	response.OK(c, operationMessage(c), product)
}

type productUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	ImageFile   *string  `json:"imageFile"`
}

// UpdateProduct applies a partial update; absent fields keep their stored
// values and the id is immutable.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var upd productUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.Fail(c, apperrors.Validation("invalid product payload", err))
		return
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		if *upd.Name == "" {
			response.Fail(c, apperrors.Validation("name must not be empty", nil))
			return
		}
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			response.Fail(c, apperrors.Validation("price must not be negative", nil))
			return
		}
		updates["price"] = *upd.Price
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if upd.ImageFile != nil {
		updates["imageFile"] = *upd.ImageFile
	}

	product, err := pc.repo.Update(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, ddbstore.ErrNotFound) {
			response.Fail(c, apperrors.NotFound("product not found: "+id, err))
			return
		}
		zap.L().Error("update product failed", zap.String("id", id), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to update product", err))
		return
	}

	if pc.cache != nil {
		pc.cache.InvalidateProduct(c.Request.Context(), id)
	}
	response.OK(c, operationMessage(c), product)
}

// DeleteProduct removes a catalog entry.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := pc.repo.Delete(c.Request.Context(), id); err != nil {
		zap.L().Error("delete product failed", zap.String("id", id), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to delete product", err))
		return
	}

	if pc.cache != nil {
		pc.cache.InvalidateProduct(c.Request.Context(), id)
	}
	response.OK(c, operationMessage(c), nil)
}
