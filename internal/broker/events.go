package broker

import (
	"context"
	"fmt"

	"rewards-service/internal/models"
)

// EventPublisher handles publishing rewards domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBusinessRegistered publishes a BusinessRegistered event
func (ep *EventPublisher) PublishBusinessRegistered(ctx context.Context, event *models.BusinessRegisteredEvent) error {
	return ep.producer.PublishEvent(ctx, businessKey(event.BusinessID), event)
}

// PublishPurchaseRecorded publishes a PurchaseRecorded event
func (ep *EventPublisher) PublishPurchaseRecorded(ctx context.Context, event *models.PurchaseRecordedEvent) error {
	return ep.producer.PublishEvent(ctx, businessKey(event.BusinessID), event)
}

// PublishPointsRedeemed publishes a PointsRedeemed event
func (ep *EventPublisher) PublishPointsRedeemed(ctx context.Context, event *models.PointsRedeemedEvent) error {
	return ep.producer.PublishEvent(ctx, businessKey(event.BusinessID), event)
}

// PublishStatementGenerated publishes a StatementGenerated event
func (ep *EventPublisher) PublishStatementGenerated(ctx context.Context, event *models.StatementGeneratedEvent) error {
	return ep.producer.PublishEvent(ctx, businessKey(event.BusinessID), event)
}

// Events for one business share a key so they stay ordered per partition
func businessKey(businessID int64) string {
	return fmt.Sprintf("business-%d", businessID)
}
