package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swn-microservices/services/ordering-service/models"
)

const (
	testSource     = "com.swn.basket.checkoutbasket"
	testDetailType = "CheckoutBasket"
)

func newTestConsumer(repo *mockOrderRepo) *SQSCheckoutConsumer {
	ingest := NewIngestService(repo, nil, "", nil)
	return NewSQSCheckoutConsumer(nil, ingest, testSource, testDetailType)
}

func envelopeBody(t *testing.T, evt models.CheckoutEvent) string {
	t.Helper()
	detail, err := json.Marshal(evt)
	require.NoError(t, err)
	envelope, err := json.Marshal(models.BusEnvelope{
		Source:     testSource,
		DetailType: testDetailType,
		Detail:     detail,
	})
	require.NoError(t, err)
	return string(envelope)
}

func TestHandleMessage_UnwrapsBusEnvelope(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	err := c.handleMessage(context.Background(), envelopeBody(t, testEvent()))

	require.NoError(t, err)
	require.Len(t, repo.orders, 1)
	assert.Equal(t, "u1", repo.orders[0].Username)
	assert.Equal(t, "chk-1", repo.orders[0].CheckoutID)
}

func TestHandleMessage_AcceptsBareCheckoutPayload(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	body, err := json.Marshal(testEvent())
	require.NoError(t, err)

	require.NoError(t, c.handleMessage(context.Background(), string(body)))
	assert.Len(t, repo.orders, 1)
}

func TestHandleMessage_UnwrapsSNSNotification(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	wrapped, err := json.Marshal(map[string]string{
		"Type":    "Notification",
		"Message": envelopeBody(t, testEvent()),
	})
	require.NoError(t, err)

	require.NoError(t, c.handleMessage(context.Background(), string(wrapped)))
	assert.Len(t, repo.orders, 1)
}

func TestHandleMessage_DropsInvalidJSON(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	// nil means acked: a malformed body can never succeed on redelivery.
	assert.NoError(t, c.handleMessage(context.Background(), "{not json"))
	assert.Empty(t, repo.orders)
}

func TestHandleMessage_DropsForeignRouting(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	detail, err := json.Marshal(testEvent())
	require.NoError(t, err)
	body, err := json.Marshal(models.BusEnvelope{
		Source:     "com.swn.product.something",
		DetailType: "ProductUpdated",
		Detail:     detail,
	})
	require.NoError(t, err)

	assert.NoError(t, c.handleMessage(context.Background(), string(body)))
	assert.Empty(t, repo.orders)
}

func TestHandleMessage_DropsEventWithoutUsername(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	evt := testEvent()
	evt.Username = ""

	assert.NoError(t, c.handleMessage(context.Background(), envelopeBody(t, evt)))
	assert.Empty(t, repo.orders)
}

func TestHandleMessage_StoreFailureLeavesMessageForRedelivery(t *testing.T) {
	repo := newMockOrderRepo()
	repo.createErr = errors.New("throttled")
	c := newTestConsumer(repo)

	err := c.handleMessage(context.Background(), envelopeBody(t, testEvent()))

	assert.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestHandleMessage_DuplicateDeliveryIsAcked(t *testing.T) {
	repo := newMockOrderRepo()
	c := newTestConsumer(repo)

	body := envelopeBody(t, testEvent())
	require.NoError(t, c.handleMessage(context.Background(), body))
	require.NoError(t, c.handleMessage(context.Background(), body))

	assert.Len(t, repo.orders, 1)
}
