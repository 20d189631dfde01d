package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddbstore "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/product-service/controllers"
	"swn-microservices/services/product-service/models"
	"swn-microservices/services/product-service/routes"
)

type stubProductRepo struct {
	products map[string]models.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[string]models.Product{}}
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ddbstore.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductRepo) GetAll(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductRepo) GetByCategory(_ context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if strings.Contains(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = uuid.New().String()
	s.products[product.ID] = *product
	return nil
}

func (s *stubProductRepo) Update(_ context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ddbstore.ErrNotFound
	}
	for attr, val := range updates {
		switch attr {
		case "name":
			p.Name = val.(string)
		case "description":
			p.Description = val.(string)
		case "price":
			p.Price = val.(float64)
		case "category":
			p.Category = val.(string)
		case "imageFile":
			p.ImageFile = val.(string)
		}
	}
	s.products[id] = p
	return &p, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id string) error {
	delete(s.products, id)
	return nil
}

// fakeCache is a synchronous in-memory stand-in for the redis cache.
type fakeCache struct {
	products map[string]models.Product
	lists    map[string][]models.Product
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: map[string]models.Product{}, lists: map[string][]models.Product{}}
}

func (f *fakeCache) GetProduct(_ context.Context, id string) (*models.Product, bool) {
	p, ok := f.products[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (f *fakeCache) SetProductAsync(product *models.Product) {
	f.products[product.ID] = *product
}

func (f *fakeCache) GetProductList(_ context.Context, category string) ([]models.Product, bool) {
	list, ok := f.lists[category]
	return list, ok
}

func (f *fakeCache) SetProductListAsync(category string, products []models.Product) {
	f.lists[category] = products
}

func (f *fakeCache) InvalidateProduct(_ context.Context, id string) {
	delete(f.products, id)
	f.lists = map[string][]models.Product{}
}

func newProductRouter(repo *stubProductRepo) *gin.Engine {
	return newCachedProductRouter(repo, nil)
}

func newCachedProductRouter(repo *stubProductRepo, productCache controllers.ProductCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.RegisterProductRoutes(r, controllers.NewProductController(repo, productCache, nil))
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetProduct(t *testing.T) {
	repo := newStubProductRepo()
	router := newProductRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/product",
		`{"name":"IPhone X","price":950,"category":"Phone"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Body.ID)

	w = doJSON(t, router, http.MethodGet, "/product/"+created.Body.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "IPhone X", got.Body.Name)
	assert.Equal(t, 950.0, got.Body.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	router := newProductRouter(newStubProductRepo())

	w := doJSON(t, router, http.MethodGet, "/product/missing-id", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp struct {
		ErrorMsg string `json:"errorMsg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.ErrorMsg, "missing-id")
}

func TestCreateProduct_Validation(t *testing.T) {
	router := newProductRouter(newStubProductRepo())

	w := doJSON(t, router, http.MethodPost, "/product", `{"price":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/product", `{"name":"X","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllProducts_CategoryFilter(t *testing.T) {
	repo := newStubProductRepo()
	router := newProductRouter(repo)

	doJSON(t, router, http.MethodPost, "/product", `{"name":"IPhone X","price":950,"category":"Phone"}`)
	doJSON(t, router, http.MethodPost, "/product", `{"name":"Headset","price":95,"category":"Accessories"}`)

	w := doJSON(t, router, http.MethodGet, "/product?category=Phone", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Body []models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Body, 1)
	assert.Equal(t, "IPhone X", resp.Body[0].Name)
}

func TestUpdateProduct_PartialKeepsOtherFields(t *testing.T) {
	repo := newStubProductRepo()
	router := newProductRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/product",
		`{"name":"IPhone X","description":"flagship","price":950,"category":"Phone"}`)
	var created struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPut, "/product/"+created.Body.ID, `{"price":899.99}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 899.99, updated.Body.Price)
	assert.Equal(t, "IPhone X", updated.Body.Name)
	assert.Equal(t, "flagship", updated.Body.Description)
	assert.Equal(t, created.Body.ID, updated.Body.ID)
}

func TestGetProduct_CacheHitSkipsRepository(t *testing.T) {
	repo := newStubProductRepo()
	cached := newFakeCache()
	cached.products["abc"] = models.Product{ID: "abc", Name: "Cached Phone", Price: 500}
	router := newCachedProductRouter(repo, cached)

	// The repository has no such product; only the cache can answer.
	w := doJSON(t, router, http.MethodGet, "/product/abc", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Cached Phone", got.Body.Name)
}

func TestGetProduct_CacheMissPopulatesCache(t *testing.T) {
	repo := newStubProductRepo()
	cached := newFakeCache()
	router := newCachedProductRouter(repo, cached)

	w := doJSON(t, router, http.MethodPost, "/product", `{"name":"IPhone X","price":950}`)
	var created struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, "/product/"+created.Body.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := cached.GetProduct(context.Background(), created.Body.ID)
	assert.True(t, ok, "read miss should populate the cache")
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	repo := newStubProductRepo()
	cached := newFakeCache()
	router := newCachedProductRouter(repo, cached)

	w := doJSON(t, router, http.MethodPost, "/product", `{"name":"IPhone X","price":950}`)
	var created struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	doJSON(t, router, http.MethodGet, "/product/"+created.Body.ID, "")
	doJSON(t, router, http.MethodPut, "/product/"+created.Body.ID, `{"price":899}`)

	_, ok := cached.GetProduct(context.Background(), created.Body.ID)
	assert.False(t, ok, "write should invalidate the cached product")
}

func TestUpdateProduct_NotFound(t *testing.T) {
	router := newProductRouter(newStubProductRepo())

	w := doJSON(t, router, http.MethodPut, "/product/nope", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	repo := newStubProductRepo()
	router := newProductRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/product", `{"name":"IPhone X","price":950}`)
	var created struct {
		Body models.Product `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodDelete, "/product/"+created.Body.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/product/"+created.Body.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
