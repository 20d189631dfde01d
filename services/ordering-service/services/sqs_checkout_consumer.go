package services

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	aws_pkg "swn-microservices/pkg/aws"
	"swn-microservices/services/ordering-service/models"
)

// SQSCheckoutConsumer drains the order queue that the bus rule targets.
// Message bodies are EventBridge envelopes; the checkout payload sits under
// "detail". Returning nil from the handler acknowledges the message;
// returning an error leaves it for redelivery after the visibility window.
type SQSCheckoutConsumer struct {
	consumer   *aws_pkg.SQSConsumer
	ingest     *IngestService
	source     string
	detailType string
}

func NewSQSCheckoutConsumer(consumer *aws_pkg.SQSConsumer, ingest *IngestService, source, detailType string) *SQSCheckoutConsumer {
	return &SQSCheckoutConsumer{
		consumer:   consumer,
		ingest:     ingest,
		source:     source,
		detailType: detailType,
	}
}

// Start begins polling the checkout queue. Blocks until ctx is cancelled.
func (c *SQSCheckoutConsumer) Start(ctx context.Context) {
	zap.L().Info("starting checkout queue consumer")

	err := c.consumer.StartPolling(ctx, c.handleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("checkout queue polling stopped", zap.Error(err))
	}
}

// snsEnvelope unwraps the SNS → SQS wrapper used when the queue is fed
// through a topic subscription instead of a direct bus target.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// handleMessage processes one delivered message in isolation: a failure here
// affects only this message's acknowledgment, never its batch siblings.
// Unprocessable messages (bad JSON, foreign routing, no username) are acked
// and dropped — redelivering them could never succeed.
func (c *SQSCheckoutConsumer) handleMessage(ctx context.Context, body string) error {
	var sns snsEnvelope
	if err := json.Unmarshal([]byte(body), &sns); err == nil &&
		sns.Type == "Notification" && sns.Message != "" {
		body = sns.Message
	}

	var envelope models.BusEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		zap.L().Error("invalid JSON on checkout queue, dropping", zap.Error(err))
		return nil
	}

	payload := []byte(body)
	if envelope.Source != "" || envelope.DetailType != "" {
		// The bus rule already filters on (source, detail-type); this check
		// only guards against misconfigured rules.
		if envelope.Source != c.source || envelope.DetailType != c.detailType {
			zap.L().Warn("dropping event with unexpected routing",
				zap.String("source", envelope.Source),
				zap.String("detail_type", envelope.DetailType))
			return nil
		}
		payload = envelope.Detail
	}

	var evt models.CheckoutEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		zap.L().Error("invalid checkout payload, dropping", zap.Error(err))
		return nil
	}

	_, err := c.ingest.Ingest(ctx, evt)
	if errors.Is(err, ErrMissingUsername) {
		zap.L().Error("checkout event without username, dropping",
			zap.String("checkout_id", evt.CheckoutID))
		return nil
	}
	return err
}
