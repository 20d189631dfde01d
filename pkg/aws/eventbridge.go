package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

// EventPublisher is a minimal interface for putting events on an event bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, source, detailType string, detail []byte) error
}

// EventBridgeClient publishes events to a named EventBridge bus. Routing to
// consumers happens on the bus side: a rule matching (source, detail-type)
// forwards the event to its target queue, everything else is dropped.
type EventBridgeClient struct {
	client  *eventbridge.Client
	busName string
}

func NewEventBridgeClient(cfg sdkaws.Config, busName string) *EventBridgeClient {
	return &EventBridgeClient{
		client:  eventbridge.NewFromConfig(cfg),
		busName: busName,
	}
}

// PublishEvent puts a single entry on the bus. The returned error covers both
// transport failures and entries the bus rejected, so a nil error means the
// event was durably accepted.
func (e *EventBridgeClient) PublishEvent(ctx context.Context, source, detailType string, detail []byte) error {
	if e.busName == "" {
		return fmt.Errorf("empty event bus name")
	}

	out, err := e.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: &e.busName,
				Source:       &source,
				DetailType:   &detailType,
				Detail:       awsString(string(detail)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("eventbridge put events failed for bus %s: %w", e.busName, err)
	}
	if out.FailedEntryCount > 0 {
		for _, entry := range out.Entries {
			if entry.ErrorCode != nil {
				return fmt.Errorf("eventbridge rejected entry: %s", *entry.ErrorCode)
			}
		}
		return fmt.Errorf("eventbridge rejected %d entries", out.FailedEntryCount)
	}
	return nil
}
