package models

import (
	"fmt"
	"time"
)

const (
	OrderPending   = "pending"
	OrderAccepted  = "accepted"
	OrderCooking   = "cooking"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderTransitions is the allowed status graph: the lifecycle is monotonic
// through pending -> accepted -> cooking -> ready -> delivered, and
// cancelled absorbs from every non-terminal state.
var OrderTransitions = map[string][]string{
	OrderPending:   {OrderAccepted, OrderCancelled},
	OrderAccepted:  {OrderCooking, OrderCancelled},
	OrderCooking:   {OrderReady, OrderCancelled},
	OrderReady:     {OrderDelivered, OrderCancelled},
	OrderDelivered: {},
	OrderCancelled: {},
}

// CanTransition reports whether from -> to is an allowed status move.
func CanTransition(from, to string) bool {
	allowed, ok := OrderTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves the order to the new status and stamps the
// lifecycle time fields. Returns an error on an illegal move.
func (o *Order) ApplyTransition(to string, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("invalid order status transition: %s -> %s", o.Status, to)
	}

	o.Status = to
	o.UpdatedAt = now

	switch to {
	case OrderAccepted:
		if o.AcceptedAt == nil {
			t := now
			o.AcceptedAt = &t
		}
	case OrderDelivered:
		if o.DeliveredAt == nil {
			t := now
			o.DeliveredAt = &t
		}
	case OrderCancelled:
		if o.CancelledAt == nil {
			t := now
			o.CancelledAt = &t
		}
	}
	return nil
}
