package services

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"swn-microservices/services/ordering-service/models"
)

// StartKafkaCheckoutConsumer is the direct-subscription ingestion path: it
// reads the checkout stream the basket service mirrors onto Kafka and feeds
// the same ingest function the queue path uses, so a checkout delivered on
// both transports still collapses to a single order via its checkoutId.
// Blocks until ctx is cancelled.
func StartKafkaCheckoutConsumer(ctx context.Context, brokers []string, topic, groupID string, ingest *IngestService) {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer r.Close()

	zap.L().Info("starting checkout stream consumer",
		zap.String("topic", topic),
		zap.String("group", groupID))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				zap.L().Info("checkout stream consumer stopped")
				return
			}
			zap.L().Error("kafka read error", zap.Error(err))
			continue
		}

		var evt models.CheckoutEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			zap.L().Error("invalid checkout event on stream, skipping", zap.Error(err))
			continue
		}

		if _, err := ingest.Ingest(ctx, evt); err != nil {
			if errors.Is(err, ErrMissingUsername) {
				zap.L().Error("checkout event without username on stream, skipping",
					zap.String("checkout_id", evt.CheckoutID))
				continue
			}
			// The offset is already committed; recovery for this copy relies
			// on the queue-delivered copy of the same checkout.
			zap.L().Error("stream ingest failed",
				zap.String("checkout_id", evt.CheckoutID),
				zap.Error(err))
		}
	}
}
