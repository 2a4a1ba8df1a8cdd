package domain

import (
	"errors"
	"time"
)

// PaymentStatus and DeliveryStatus are independent enumerations; placement
// always creates orders with both set to pending.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryShipped   DeliveryStatus = "SHIPPED"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

var (
	ErrInvalidBookID         = errors.New("book id must be greater than zero")
	ErrInvalidPaymentStatus  = errors.New("payment status is invalid")
	ErrInvalidDeliveryStatus = errors.New("delivery status is invalid")
)

// Order is a durable record of a rental request for one book, created only by
// the placement workflow, one per cart line.
type Order struct {
	ID             int64
	OwnerID        *int64
	BookID         int64
	PlacedAt       time.Time
	RentalDays     *int32
	PaymentStatus  PaymentStatus
	DeliveryStatus DeliveryStatus
}

// NewOrder constructs an order with the initial pending statuses shared by
// every line of a placement.
func NewOrder(ownerID *int64, bookID int64, placedAt time.Time, rentalDays *int32) (*Order, error) {
	order := &Order{
		OwnerID:        ownerID,
		BookID:         bookID,
		PlacedAt:       placedAt,
		RentalDays:     rentalDays,
		PaymentStatus:  PaymentPending,
		DeliveryStatus: DeliveryPending,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.BookID <= 0 {
		return ErrInvalidBookID
	}
	if !o.PaymentStatus.Valid() {
		return ErrInvalidPaymentStatus
	}
	if !o.DeliveryStatus.Valid() {
		return ErrInvalidDeliveryStatus
	}
	return nil
}

// UpdateStatuses advances the independently tracked statuses; empty values
// leave the current one untouched.
func (o *Order) UpdateStatuses(payment PaymentStatus, delivery DeliveryStatus) error {
	if payment != "" {
		if !payment.Valid() {
			return ErrInvalidPaymentStatus
		}
		o.PaymentStatus = payment
	}
	if delivery != "" {
		if !delivery.Valid() {
			return ErrInvalidDeliveryStatus
		}
		o.DeliveryStatus = delivery
	}
	return nil
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryShipped, DeliveryDelivered:
		return true
	default:
		return false
	}
}
