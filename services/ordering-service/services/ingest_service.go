package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	aws_pkg "swn-microservices/pkg/aws"
	"swn-microservices/services/ordering-service/models"
	"swn-microservices/services/ordering-service/repository"
)

// ErrMissingUsername marks an event that can never be turned into an order.
// Consumers ack and drop such messages instead of redelivering them forever.
var ErrMissingUsername = errors.New("checkout event has no username")

// IngestService synthesizes an immutable order from a delivered checkout
// event. It is invoked once per delivered message, whichever transport the
// message arrived on, and must tolerate redelivery of the same logical event.
type IngestService struct {
	repo     repository.OrderRepository
	notifier aws_pkg.SNSPublisher
	topicArn string
	metrics  *aws_pkg.MetricsClient

	// now is swappable for tests.
	now func() time.Time
}

func NewIngestService(repo repository.OrderRepository, notifier aws_pkg.SNSPublisher, topicArn string, metrics *aws_pkg.MetricsClient) *IngestService {
	return &IngestService{
		repo:     repo,
		notifier: notifier,
		topicArn: topicArn,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Ingest stamps the order date, deduplicates on the event's checkoutId and
// persists the order. A duplicate delivery is absorbed: it logs, counts, and
// returns (nil, nil) so the transport acknowledges the message. Any other
// error is retryable and must leave the message unacknowledged.
//
// The orderDate stamp happens here, not at the producer — which is exactly
// why the checkoutId claim is mandatory: reprocessing would otherwise mint a
// second order under a fresh timestamp.
func (s *IngestService) Ingest(ctx context.Context, evt models.CheckoutEvent) (*models.Order, error) {
	if evt.Username == "" {
		return nil, ErrMissingUsername
	}

	order := &models.Order{
		Username:   evt.Username,
		OrderDate:  s.now().UTC().Format(time.RFC3339),
		CheckoutID: evt.CheckoutID,
		TotalPrice: evt.TotalPrice,
		Items:      evt.Items,

		FirstName:     evt.FirstName,
		LastName:      evt.LastName,
		Email:         evt.Email,
		Address:       evt.Address,
		CardInfo:      evt.CardInfo,
		PaymentMethod: evt.PaymentMethod,
	}

	err := s.repo.CreateOnce(ctx, order)
	if errors.Is(err, repository.ErrDuplicateCheckout) {
		zap.L().Warn("duplicate checkout delivery absorbed",
			zap.String("username", evt.Username),
			zap.String("checkout_id", evt.CheckoutID))
		if s.metrics != nil && s.metrics.IsEnabled() {
			dims := map[string]string{"Service": "ordering-service"}
			_ = s.metrics.RecordCount(ctx, aws_pkg.MetricDuplicateDeliveries, dims)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("order created",
		zap.String("username", order.Username),
		zap.String("order_date", order.OrderDate),
		zap.String("checkout_id", order.CheckoutID),
		zap.Float64("total_price", order.TotalPrice),
		zap.Int("items", len(order.Items)))

	if s.metrics != nil && s.metrics.IsEnabled() {
		go func() {
			metricCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Service": "ordering-service"}
			_ = s.metrics.RecordCount(metricCtx, aws_pkg.MetricOrdersCreated, dims)
			_ = s.metrics.RecordValue(metricCtx, aws_pkg.MetricOrderTotalPrice, order.TotalPrice, dims)
		}()
	}

	// Order-created notification is best-effort; the order is already durable.
	if s.notifier != nil && s.topicArn != "" {
		msg, err := json.Marshal(order)
		if err == nil {
			if err := s.notifier.Publish(ctx, s.topicArn, msg); err != nil {
				zap.L().Warn("order notification failed",
					zap.String("checkout_id", order.CheckoutID),
					zap.Error(err))
			}
		}
	}

	return order, nil
}
