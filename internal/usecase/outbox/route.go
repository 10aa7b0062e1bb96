package outbox

import (
	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/usecase/shared"
)

type Route struct {
	// Skip marks events that need no job: the saga's first job is enqueued at ingestion.
	Skip    bool
	Queue   string
	JobType string
}

var orderRoutes = map[string]Route{
	outbox.EventOrderCreated:   {Skip: true},
	outbox.EventOrderConfirmed: {Queue: shared.QueueNotifications, JobType: shared.JobSendOrderConfirmation},
	outbox.EventOrderFailed:    {Queue: shared.QueueNotifications, JobType: shared.JobSendOrderFailure},
	outbox.EventOrderCancelled: {Queue: shared.QueueNotifications, JobType: shared.JobSendOrderCancellation},
}

func RouteFor(aggregateType outbox.AggregateType, eventType string) Route {
	switch aggregateType {
	case outbox.AggregateOrder:
		if r, ok := orderRoutes[eventType]; ok {
			return r
		}
	case outbox.AggregateInventory:
		return Route{Queue: shared.QueueInventoryManagement, JobType: shared.JobInventoryEvent}
	case outbox.AggregatePayment:
		return Route{Queue: shared.QueuePaymentProcessing, JobType: shared.JobPaymentEvent}
	}
	return Route{Queue: shared.QueueDefault, JobType: shared.JobGenericEvent}
}
