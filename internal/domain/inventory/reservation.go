package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is a time-bounded hold keyed by (reservationID, productID, location).
// Quantity is the amount still held while ACTIVE.
type Reservation struct {
	id            uuid.UUID
	reservationID uuid.UUID
	productID     uuid.UUID
	location      string
	quantity      int
	status        ReservationStatus
	expiresAt     time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewReservation(reservationID, productID uuid.UUID, location string, quantity int, expiresAt, now time.Time) (*Reservation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if location == "" {
		return nil, ErrLocationRequired
	}
	return &Reservation{
		id:            uuid.New(),
		reservationID: reservationID,
		productID:     productID,
		location:      location,
		quantity:      quantity,
		status:        ReservationActive,
		expiresAt:     expiresAt,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

type ReservationParams struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	ProductID     uuid.UUID
	Location      string
	Quantity      int
	Status        ReservationStatus
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructReservation(p ReservationParams) *Reservation {
	return &Reservation{
		id:            p.ID,
		reservationID: p.ReservationID,
		productID:     p.ProductID,
		location:      p.Location,
		quantity:      p.Quantity,
		status:        p.Status,
		expiresAt:     p.ExpiresAt,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) ReservationID() uuid.UUID  { return r.reservationID }
func (r *Reservation) ProductID() uuid.UUID      { return r.productID }
func (r *Reservation) Location() string          { return r.location }
func (r *Reservation) Quantity() int             { return r.quantity }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) ExpiresAt() time.Time      { return r.expiresAt }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time      { return r.updatedAt }

func (r *Reservation) Params() ReservationParams {
	return ReservationParams{
		ID:            r.id,
		ReservationID: r.reservationID,
		ProductID:     r.productID,
		Location:      r.location,
		Quantity:      r.quantity,
		Status:        r.status,
		ExpiresAt:     r.expiresAt,
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.updatedAt,
	}
}

func (r *Reservation) IsActive() bool { return r.status == ReservationActive }

func (r *Reservation) IsExpired(now time.Time) bool {
	return r.IsActive() && !now.Before(r.expiresAt)
}

// Release frees up to qty of the hold and returns how much was freed.
// A partial release leaves the remainder ACTIVE.
func (r *Reservation) Release(qty int, now time.Time) int {
	if !r.IsActive() || qty <= 0 {
		return 0
	}
	r.updatedAt = now
	if qty >= r.quantity {
		r.status = ReservationReleased
		return r.quantity
	}
	r.quantity -= qty
	return qty
}

// Fulfill consumes qty of the hold. Fulfilling less than the remainder keeps it ACTIVE.
func (r *Reservation) Fulfill(qty int, now time.Time) error {
	if !r.IsActive() {
		return ErrReservationNotActive
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > r.quantity {
		return ErrExceedsReservedQuantity
	}
	r.updatedAt = now
	if qty == r.quantity {
		r.status = ReservationFulfilled
		return nil
	}
	r.quantity -= qty
	return nil
}

// Expire closes an ACTIVE hold and returns the quantity it held.
func (r *Reservation) Expire(now time.Time) int {
	if !r.IsActive() {
		return 0
	}
	r.status = ReservationExpired
	r.updatedAt = now
	return r.quantity
}
