package inventory

import "order-fulfillment/internal/pkg/errs"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationReleased  ReservationStatus = "RELEASED"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

type MovementType string

const (
	MovementRestock    MovementType = "RESTOCK"
	MovementDamage     MovementType = "DAMAGE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementSale       MovementType = "SALE"
)

func ParseMovementType(s string) (MovementType, error) {
	switch mt := MovementType(s); mt {
	case MovementRestock, MovementDamage, MovementAdjustment, MovementSale:
		return mt, nil
	default:
		return "", errs.Wrapf(ErrUnknownMovementType, "movement type %q", s)
	}
}

var (
	ErrRecordNotFound          = errs.NewClassed("inventory record not found", errs.ClassNotFound)
	ErrInsufficientStock       = errs.NewClassed("insufficient stock", errs.ClassPermanent)
	ErrInvalidQuantity         = errs.NewClassed("quantity must be positive", errs.ClassValidation)
	ErrInvalidStockLevel       = errs.NewClassed("stock levels cannot be negative", errs.ClassValidation)
	ErrUnknownMovementType     = errs.NewClassed("unknown stock movement type", errs.ClassValidation)
	ErrNegativeStock           = errs.NewClassed("physical stock cannot drop below reserved or zero", errs.ClassPermanent)
	ErrReservationNotFound     = errs.NewClassed("reservation not found", errs.ClassNotFound)
	ErrReservationNotActive    = errs.NewClassed("reservation is not active", errs.ClassConflict)
	ErrReservationClosed       = errs.NewClassed("reservation id was already used and closed", errs.ClassConflict)
	ErrReservationMismatch     = errs.NewClassed("reservation exists with a different quantity", errs.ClassConflict)
	ErrExceedsReservedQuantity = errs.NewClassed("quantity exceeds the reservation's remaining quantity", errs.ClassPermanent)
	ErrLocationRequired        = errs.NewClassed("location is required", errs.ClassValidation)
)
