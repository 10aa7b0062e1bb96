package payment

import (
	"context"

	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/pkg/errs"
)

type Status string

const (
	StatusCaptured          Status = "CAPTURED"
	StatusFailed            Status = "FAILED"
	StatusRefunded          Status = "REFUNDED"
	StatusPartiallyRefunded Status = "PARTIALLY_REFUNDED"
)

type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
)

func (m Method) Supported() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal:
		return true
	default:
		return false
	}
}

type Request struct {
	OrderID        string
	Amount         money.Money
	Method         Method
	IdempotencyKey string
}

type Result struct {
	PaymentID     string
	Status        Status
	TransactionID string
}

type RefundResult struct {
	RefundID string
	Status   Status
}

type Details struct {
	PaymentID string
	OrderID   string
	Status    Status
	Amount    money.Money
	Refunded  money.Money
}

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/payment/gateway.go -package=paymentmock
type Gateway interface {
	ProcessPayment(ctx context.Context, req Request) (*Result, error)
	RefundPayment(ctx context.Context, paymentID string, amount money.Money, reason string) (*RefundResult, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (*Details, error)
}

var (
	ErrFraudRejected          = errs.NewClassed("payment rejected by fraud check", errs.ClassPermanent)
	ErrUnsupportedMethod      = errs.NewClassed("unsupported payment method", errs.ClassPermanent)
	ErrInvalidAmount          = errs.NewClassed("payment amount must be positive", errs.ClassValidation)
	ErrRateLimited            = errs.NewClassed("payment rate limit exceeded", errs.ClassRetriable)
	ErrTimeout                = errs.NewClassed("payment gateway timeout", errs.ClassRetriable)
	ErrCircuitOpen            = errs.NewClassed("payment circuit open", errs.ClassRetriable)
	ErrExceedsAvailableAmount = errs.NewClassed("refund exceeds refundable amount", errs.ClassPermanent)
	ErrPaymentNotFound        = errs.NewClassed("payment not found", errs.ClassNotFound)
)

// Classify maps a gateway failure onto the error taxonomy.
// Unclassified errors are treated as transient, like a 5xx from a provider.
func Classify(err error) errs.Class {
	if err == nil {
		return errs.ClassUnknown
	}
	if errs.Is(err, context.Canceled) {
		return errs.ClassRetriable
	}
	if c := errs.ClassOf(err); c != errs.ClassUnknown {
		return c
	}
	return errs.ClassRetriable
}
