package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddbstore "swn-microservices/pkg/dynamodb"
	"swn-microservices/services/basket-service/models"
	"swn-microservices/services/basket-service/services"
)

// ---- mock repository ----

type mockBasketRepo struct {
	baskets   map[string]*models.Basket
	getErr    error
	deleteErr error
	deleted   []string
}

func (m *mockBasketRepo) Get(_ context.Context, username string) (*models.Basket, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	basket, ok := m.baskets[username]
	if !ok {
		return nil, ddbstore.ErrNotFound
	}
	return basket, nil
}

func (m *mockBasketRepo) GetAll(_ context.Context) ([]models.Basket, error) {
	return nil, nil
}

func (m *mockBasketRepo) Save(_ context.Context, basket *models.Basket) error {
	m.baskets[basket.Username] = basket
	return nil
}

func (m *mockBasketRepo) Delete(_ context.Context, username string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.baskets, username)
	m.deleted = append(m.deleted, username)
	return nil
}

// ---- mock bus publisher ----

type mockBus struct {
	published   [][]byte
	sources     []string
	detailTypes []string
	err         error
}

func (m *mockBus) PublishEvent(_ context.Context, source, detailType string, detail []byte) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, append([]byte(nil), detail...))
	m.sources = append(m.sources, source)
	m.detailTypes = append(m.detailTypes, detailType)
	return nil
}

// ---- mock mirror ----

type mockMirror struct {
	sent []models.OrderPayload
	err  error
}

func (m *mockMirror) SendCheckoutEvent(_ context.Context, payload models.OrderPayload) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, payload)
	return nil
}

func newRepoWithBasket(basket *models.Basket) *mockBasketRepo {
	repo := &mockBasketRepo{baskets: map[string]*models.Basket{}}
	if basket != nil {
		repo.baskets[basket.Username] = basket
	}
	return repo
}

func TestCheckout_MissingUsername(t *testing.T) {
	repo := newRepoWithBasket(&models.Basket{Username: "u1"})
	bus := &mockBus{}
	svc := services.NewCheckoutService(repo, bus, nil, nil, "com.swn.basket.checkoutbasket", "CheckoutBasket")

	payload, appErr := svc.Checkout(context.Background(), models.CheckoutRequest{})

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Nil(t, payload)
	assert.Empty(t, bus.published, "no event may be published on validation failure")
	assert.Empty(t, repo.deleted, "no basket may be deleted on validation failure")
}

func TestCheckout_MissingBasket(t *testing.T) {
	repo := newRepoWithBasket(nil)
	bus := &mockBus{}
	svc := services.NewCheckoutService(repo, bus, nil, nil, "com.swn.basket.checkoutbasket", "CheckoutBasket")

	_, appErr := svc.Checkout(context.Background(), models.CheckoutRequest{Username: "ghost"})

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Empty(t, bus.published)
}

func TestCheckout_TotalPriceIsSumOfItemPrices(t *testing.T) {
	repo := newRepoWithBasket(&models.Basket{
		Username: "u1",
		Items: []models.BasketItem{
			{ProductID: "p1", Price: 10, Quantity: 3},
			{ProductID: "p2", Price: 5, Quantity: 1},
		},
	})
	bus := &mockBus{}
	svc := services.NewCheckoutService(repo, bus, nil, nil, "com.swn.basket.checkoutbasket", "CheckoutBasket")

	payload, appErr := svc.Checkout(context.Background(), models.CheckoutRequest{Username: "u1"})

	require.Nil(t, appErr)
	// Quantity is intentionally not factored into the total.
	assert.Equal(t, 15.0, payload.TotalPrice)
	assert.NotEmpty(t, payload.CheckoutID)

	require.Len(t, bus.published, 1)
	assert.Equal(t, "com.swn.basket.checkoutbasket", bus.sources[0])
	assert.Equal(t, "CheckoutBasket", bus.detailTypes[0])

	var wire models.OrderPayload
	require.NoError(t, json.Unmarshal(bus.published[0], &wire))
	assert.Equal(t, payload.CheckoutID, wire.CheckoutID)
	assert.Equal(t, 15.0, wire.TotalPrice)
	assert.Len(t, wire.Items, 2)

	// Basket gone only after a successful publish.
	assert.Equal(t, []string{"u1"}, repo.deleted)
	_, ok := repo.baskets["u1"]
	assert.False(t, ok)
}

func TestCheckout_PublishFailureKeepsBasket(t *testing.T) {
	repo := newRepoWithBasket(&models.Basket{
		Username: "u1",
		Items:    []models.BasketItem{{ProductID: "p1", Price: 10}},
	})
	bus := &mockBus{err: errors.New("bus unavailable")}
	svc := services.NewCheckoutService(repo, bus, nil, nil, "com.swn.basket.checkoutbasket", "CheckoutBasket")

	payload, appErr := svc.Checkout(context.Background(), models.CheckoutRequest{Username: "u1"})

	require.NotNil(t, appErr)
	assert.Nil(t, payload)
	assert.True(t, appErr.IsRetryable())

	_, ok := repo.baskets["u1"]
	assert.True(t, ok, "basket must remain when publish fails")
	assert.Empty(t, repo.deleted)
}

func TestCheckout_DeleteFailureIsNonFatal(t *testing.T) {
	repo := newRepoWithBasket(&models.Basket{
		Username: "u1",
		Items:    []models.BasketItem{{ProductID: "p1", Price: 10}},
	})
	repo.deleteErr = errors.New("throttled")
	bus := &mockBus{}
	svc := services.NewCheckoutService(repo, bus, nil, nil, "com.swn.basket.checkoutbasket", "CheckoutBasket")

	payload, appErr := svc.Checkout(context.Background(), models.CheckoutRequest{Username: "u1"})

	require.Nil(t, appErr, "delete failure after publish must not fail the checkout")
	assert.NotNil(t, payload)
	assert.Len(t, bus.published, 1)
}

func TestCheckout_MirrorFailureIsNonFatal(t *testing.T) {
	repo := newRepoWithBasket(&models.Basket{
		Username: "u1",
		Items:    []models.BasketItem{{ProductID: "p1", Price: 10}},
	})
	bus := &mockBus{}
	mirror := &mockMirror{err: errors.New("kafka down")}
	svc := services.NewCheckoutService(repo, bus, mirror, nil, "com.swn.basket.checkoutbasket", "CheckoutBasket")

	_, appErr := svc.Checkout(context.Background(), models.CheckoutRequest{Username: "u1"})

	require.Nil(t, appErr)
	assert.Len(t, bus.published, 1)
	assert.Empty(t, repo.baskets)
}

func TestBuildOrderPayload_BasketFieldsTakePrecedence(t *testing.T) {
	req := models.CheckoutRequest{
		Username:      "u1",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Address:       "12 Analytical St",
		PaymentMethod: 1,
	}
	basket := models.Basket{
		Username: "u1",
		Items:    []models.BasketItem{{ProductID: "p1", Price: 42.5, Quantity: 2}},
	}

	payload := services.BuildOrderPayload(req, basket)

	assert.Equal(t, basket.Username, payload.Username)
	assert.Equal(t, basket.Items, payload.Items)
	assert.Equal(t, 42.5, payload.TotalPrice)

	// Request-only fields carry over unchanged.
	assert.Equal(t, "Ada", payload.FirstName)
	assert.Equal(t, "Lovelace", payload.LastName)
	assert.Equal(t, "ada@example.com", payload.Email)
	assert.Equal(t, "12 Analytical St", payload.Address)
	assert.Equal(t, 1, payload.PaymentMethod)

	assert.NotEmpty(t, payload.CheckoutID)
	other := services.BuildOrderPayload(req, basket)
	assert.NotEqual(t, payload.CheckoutID, other.CheckoutID, "each checkout attempt mints a fresh id")
}
