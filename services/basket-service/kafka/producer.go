package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"swn-microservices/services/basket-service/models"
)

// Producer mirrors checkout events onto a Kafka topic for consumers that
// subscribe to the stream directly instead of through the queue.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// SendCheckoutEvent publishes the order payload keyed by username so one
// user's checkouts stay on one partition.
func (p *Producer) SendCheckoutEvent(ctx context.Context, payload models.OrderPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(payload.Username),
		Value: data,
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
