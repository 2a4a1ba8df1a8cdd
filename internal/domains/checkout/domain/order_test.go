package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_DefaultsToPendingStatuses(t *testing.T) {
	owner := int64(7)
	days := int32(14)
	placedAt := time.Now().Truncate(time.Second)

	order, err := NewOrder(&owner, 10, placedAt, &days)
	require.NoError(t, err)
	require.Equal(t, PaymentPending, order.PaymentStatus)
	require.Equal(t, DeliveryPending, order.DeliveryStatus)
	require.Equal(t, placedAt, order.PlacedAt)
}

func TestNewOrder_RejectsInvalidBookID(t *testing.T) {
	_, err := NewOrder(nil, 0, time.Now(), nil)
	require.ErrorIs(t, err, ErrInvalidBookID)
}

func TestUpdateStatuses_EmptyKeepsCurrent(t *testing.T) {
	order, err := NewOrder(nil, 10, time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatuses(PaymentPaid, ""))
	require.Equal(t, PaymentPaid, order.PaymentStatus)
	require.Equal(t, DeliveryPending, order.DeliveryStatus)

	require.NoError(t, order.UpdateStatuses("", DeliveryShipped))
	require.Equal(t, PaymentPaid, order.PaymentStatus)
	require.Equal(t, DeliveryShipped, order.DeliveryStatus)
}

func TestUpdateStatuses_RejectsUnknownValues(t *testing.T) {
	order, err := NewOrder(nil, 10, time.Now(), nil)
	require.NoError(t, err)

	require.ErrorIs(t, order.UpdateStatuses("BOGUS", ""), ErrInvalidPaymentStatus)
	require.ErrorIs(t, order.UpdateStatuses("", "BOGUS"), ErrInvalidDeliveryStatus)
	require.Equal(t, PaymentPending, order.PaymentStatus)
	require.Equal(t, DeliveryPending, order.DeliveryStatus)
}
