package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	aws_pkg "swn-microservices/pkg/aws"
	ddbstore "swn-microservices/pkg/dynamodb"
	apperrors "swn-microservices/services/common/errors"

	"swn-microservices/services/basket-service/models"
	"swn-microservices/services/basket-service/repository"
)

// MirrorProducer is the optional direct-stream publisher (Kafka). Failures
// here never fail a checkout; the bus is the durable path.
type MirrorProducer interface {
	SendCheckoutEvent(ctx context.Context, payload models.OrderPayload) error
}

// CheckoutService turns a live basket into a checkout event. The ordering
// between its side effects is the contract: the event is published first and
// the basket deleted only after the bus accepted it, so unconsumed items are
// never silently lost.
type CheckoutService struct {
	repo       repository.BasketRepository
	bus        aws_pkg.EventPublisher
	mirror     MirrorProducer
	metrics    *aws_pkg.MetricsClient
	source     string
	detailType string
}

func NewCheckoutService(
	repo repository.BasketRepository,
	bus aws_pkg.EventPublisher,
	mirror MirrorProducer,
	metrics *aws_pkg.MetricsClient,
	source, detailType string,
) *CheckoutService {
	return &CheckoutService{
		repo:       repo,
		bus:        bus,
		mirror:     mirror,
		metrics:    metrics,
		source:     source,
		detailType: detailType,
	}
}

// Checkout validates the request, assembles the order payload from the
// caller's basket, publishes it, and deletes the basket.
//
// Failure semantics: a failed publish leaves the basket untouched and
// surfaces a retryable error. A failed delete after a successful publish is
// only a warning; the downstream order is already on its way, at worst a
// stale basket lingers until retried or cleaned up out of band.
func (s *CheckoutService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.OrderPayload, *apperrors.Error) {
	if req.Username == "" {
		return nil, apperrors.Validation("username should exist in checkout request", nil)
	}

	basket, err := s.repo.Get(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ddbstore.ErrNotFound) {
			// Checking out without a basket fails outright rather than
			// emitting an empty order.
			return nil, apperrors.NotFound("no basket to checkout for user "+req.Username, err)
		}
		return nil, apperrors.Dependency("failed to load basket", err)
	}

	payload := BuildOrderPayload(req, *basket)

	detail, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Internal("failed to encode order payload", err)
	}

	if err := s.bus.PublishEvent(ctx, s.source, s.detailType, detail); err != nil {
		return nil, apperrors.Dependency("failed to publish checkout event", err)
	}

	if s.mirror != nil {
		if err := s.mirror.SendCheckoutEvent(ctx, payload); err != nil {
			zap.L().Warn("Kafka mirror publish failed",
				zap.String("username", req.Username),
				zap.String("checkout_id", payload.CheckoutID),
				zap.Error(err))
		}
	}

	if err := s.repo.Delete(ctx, req.Username); err != nil {
		zap.L().Warn("basket delete failed after publish, a duplicate basket may linger",
			zap.String("username", req.Username),
			zap.String("checkout_id", payload.CheckoutID),
			zap.Error(err))
	}

	if s.metrics != nil && s.metrics.IsEnabled() {
		dims := map[string]string{"Service": "basket-service"}
		_ = s.metrics.RecordCount(ctx, aws_pkg.MetricCheckoutsPublished, dims)
	}

	zap.L().Info("checkout published",
		zap.String("username", payload.Username),
		zap.String("checkout_id", payload.CheckoutID),
		zap.Float64("total_price", payload.TotalPrice),
		zap.Int("items", len(payload.Items)))

	return &payload, nil
}

// BuildOrderPayload merges the checkout request and the basket into the wire
// payload. Precedence is explicit per field: basket fields (username, items)
// overwrite the request on collision, shipping/payment fields come from the
// request, totalPrice is computed, and checkoutId is freshly minted here so
// every checkout attempt is individually recognizable downstream.
func BuildOrderPayload(req models.CheckoutRequest, basket models.Basket) models.OrderPayload {
	return models.OrderPayload{
		CheckoutID: uuid.New().String(),
		Username:   basket.Username,
		TotalPrice: basket.TotalPrice(),
		Items:      basket.Items,

		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Address:       req.Address,
		CardInfo:      req.CardInfo,
		PaymentMethod: req.PaymentMethod,
	}
}
