// Package saga holds the order saga's state machine as a pure function.
// Side effects are described by Actions and applied by the orchestrator.
package saga

import (
	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/pkg/errs"
)

type Event string

const (
	EventStarted           Event = "STARTED"
	EventInventoryReserved Event = "INVENTORY_RESERVED"
	EventInsufficientStock Event = "INSUFFICIENT_STOCK"
	EventPaymentSubmitted  Event = "PAYMENT_SUBMITTED"
	EventPaymentCaptured   Event = "PAYMENT_CAPTURED"
	EventPaymentFailed     Event = "PAYMENT_FAILED"
	EventRetriesExhausted  Event = "RETRIES_EXHAUSTED"
	EventFulfillmentFailed Event = "FULFILLMENT_FAILED"
	EventCompensated       Event = "COMPENSATED"
	EventCancelRequested   Event = "CANCEL_REQUESTED"
)

type Action string

const (
	ActionReleaseReservations Action = "RELEASE_RESERVATIONS"
	ActionRefundPayment       Action = "REFUND_PAYMENT"
	ActionFulfillReservations Action = "FULFILL_RESERVATIONS"
	ActionNotifyConfirmed     Action = "NOTIFY_CONFIRMED"
	ActionNotifyFailure       Action = "NOTIFY_FAILURE"
	ActionNotifyCancelled     Action = "NOTIFY_CANCELLED"
)

var ErrInvalidTransition = errs.NewClassed("invalid saga transition", errs.ClassConflict)

type Transition struct {
	From    order.Status
	To      order.Status
	Event   Event
	Actions []Action
}

func (t Transition) Has(a Action) bool {
	for _, x := range t.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// State is what the transition function needs to know about the order.
type State struct {
	Status     order.Status
	HasPayment bool
}

func Next(s State, ev Event) (Transition, error) {
	t := Transition{From: s.Status, Event: ev}

	switch {
	case s.Status == order.StatusPending && ev == EventStarted:
		t.To = order.StatusProcessing

	case s.Status == order.StatusProcessing && ev == EventInventoryReserved:
		t.To = order.StatusInventoryReserved

	case s.Status == order.StatusProcessing && ev == EventInsufficientStock:
		// Partially made holds are released; no payment was attempted.
		t.To = order.StatusFailed
		t.Actions = []Action{ActionReleaseReservations, ActionNotifyFailure}

	case s.Status == order.StatusInventoryReserved && ev == EventPaymentSubmitted:
		t.To = order.StatusPaymentPending

	case s.Status == order.StatusPaymentPending && ev == EventPaymentCaptured:
		t.To = order.StatusConfirmed
		t.Actions = []Action{ActionFulfillReservations, ActionNotifyConfirmed}

	case isPaymentStage(s.Status) && (ev == EventPaymentFailed || ev == EventRetriesExhausted || ev == EventFulfillmentFailed):
		t.To = order.StatusCompensating

	case s.Status == order.StatusCompensating && ev == EventCompensated:
		t.To = order.StatusCancelled
		t.Actions = []Action{ActionReleaseReservations}
		if s.HasPayment {
			t.Actions = append(t.Actions, ActionRefundPayment)
		}
		t.Actions = append(t.Actions, ActionNotifyFailure)

	case isCancellable(s.Status) && ev == EventCancelRequested:
		t.To = order.StatusCancelled
		t.Actions = []Action{ActionReleaseReservations, ActionNotifyCancelled}

	default:
		return Transition{}, errs.Wrapf(ErrInvalidTransition, "%s on %s", ev, s.Status)
	}
	return t, nil
}

func isPaymentStage(s order.Status) bool {
	return s == order.StatusInventoryReserved || s == order.StatusPaymentPending
}

func isCancellable(s order.Status) bool {
	switch s {
	case order.StatusPending, order.StatusProcessing, order.StatusInventoryReserved:
		return true
	default:
		return false
	}
}

// Reason maps a failing event to the reason recorded on the order.
func Reason(ev Event) order.FailureReason {
	switch ev {
	case EventInsufficientStock:
		return order.ReasonInsufficientStock
	case EventPaymentFailed:
		return order.ReasonPaymentDeclined
	case EventRetriesExhausted:
		return order.ReasonPaymentRetriesExhausted
	case EventFulfillmentFailed:
		return order.ReasonFulfillmentFailed
	case EventCancelRequested:
		return order.ReasonUserCancelled
	default:
		return order.ReasonNone
	}
}
