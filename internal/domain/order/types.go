package order

import "order-fulfillment/internal/pkg/errs"

type Status string

const (
	StatusPending           Status = "PENDING"
	StatusProcessing        Status = "PROCESSING"
	StatusInventoryReserved Status = "INVENTORY_RESERVED"
	StatusPaymentPending    Status = "PAYMENT_PENDING"
	StatusConfirmed         Status = "CONFIRMED"
	StatusFailed            Status = "FAILED"
	StatusCompensating      Status = "COMPENSATING"
	StatusCancelled         Status = "CANCELLED"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusInventoryReserved, StatusPaymentPending,
		StatusConfirmed, StatusFailed, StatusCompensating, StatusCancelled:
		return st, nil
	default:
		return "", errs.Wrapf(ErrUnknownStatus, "status %q", s)
	}
}

type FailureReason string

const (
	ReasonNone                    FailureReason = ""
	ReasonInsufficientStock       FailureReason = "INSUFFICIENT_STOCK"
	ReasonInventoryUnavailable    FailureReason = "INVENTORY_UNAVAILABLE"
	ReasonPaymentDeclined         FailureReason = "PAYMENT_DECLINED"
	ReasonPaymentRetriesExhausted FailureReason = "PAYMENT_RETRIES_EXHAUSTED"
	ReasonFulfillmentFailed       FailureReason = "FULFILLMENT_FAILED"
	ReasonUserCancelled           FailureReason = "USER_CANCELLED"
)

var (
	ErrUnknownStatus          = errs.NewClassed("unknown order status", errs.ClassValidation)
	ErrNoItems                = errs.NewClassed("order must contain at least one item", errs.ClassValidation)
	ErrInvalidItemQuantity    = errs.NewClassed("item quantity must be positive", errs.ClassValidation)
	ErrInvalidUnitPrice       = errs.NewClassed("item unit price must be positive", errs.ClassValidation)
	ErrDuplicateItem          = errs.NewClassed("order contains the same product and location twice", errs.ClassValidation)
	ErrIdempotencyKeyRequired = errs.NewClassed("idempotency key is required", errs.ClassValidation)
	ErrIdempotencyKeyTooLong  = errs.NewClassed("idempotency key exceeds maximum length", errs.ClassValidation)
	ErrPaymentMethodRequired  = errs.NewClassed("payment method is required", errs.ClassValidation)
	ErrUserRequired           = errs.NewClassed("user id is required", errs.ClassValidation)
)

const MaxIdempotencyKeyLength = 255
