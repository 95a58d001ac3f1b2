package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderPending, OrderAccepted, true},
		{OrderPending, OrderCancelled, true},
		{OrderAccepted, OrderCooking, true},
		{OrderCooking, OrderReady, true},
		{OrderReady, OrderDelivered, true},
		{OrderReady, OrderCancelled, true},

		{OrderPending, OrderCooking, false},
		{OrderPending, OrderDelivered, false},
		{OrderAccepted, OrderPending, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderAccepted, false},
		{"refunded", OrderAccepted, false},
		{OrderPending, "refunded", false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyTransitionStampsTimes(t *testing.T) {
	now := time.Now()
	order := Order{Status: OrderPending}

	assert.NoError(t, order.ApplyTransition(OrderAccepted, now))
	if assert.NotNil(t, order.AcceptedAt) {
		assert.Equal(t, now, *order.AcceptedAt)
	}
	assert.Nil(t, order.DeliveredAt)

	assert.NoError(t, order.ApplyTransition(OrderCooking, now))
	assert.NoError(t, order.ApplyTransition(OrderReady, now))
	assert.NoError(t, order.ApplyTransition(OrderDelivered, now))
	assert.NotNil(t, order.DeliveredAt)

	// terminal states refuse further moves
	assert.Error(t, order.ApplyTransition(OrderCancelled, now))
	assert.Equal(t, OrderDelivered, order.Status)
}

func TestApplyTransitionCancellation(t *testing.T) {
	now := time.Now()
	order := Order{Status: OrderCooking}

	assert.NoError(t, order.ApplyTransition(OrderCancelled, now))
	assert.NotNil(t, order.CancelledAt)
	assert.Error(t, order.ApplyTransition(OrderReady, now))
}
