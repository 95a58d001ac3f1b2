package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/homeplate/homeplate-app/models"
)

const (
	TypeOrderCreated  = "order_created"
	TypeStatusChanged = "status_changed"
)

// OrderEvent is the analytics stream payload for order lifecycle changes.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	CustomerID uint      `json:"customer_id"`
	CookID     uint      `json:"cook_id"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderPublisher writes order lifecycle events to Kafka. A nil writer
// disables publishing, so deployments without a broker skip the stream.
type OrderPublisher struct {
	Writer *kafka.Writer
}

func NewOrderPublisher(writer *kafka.Writer) *OrderPublisher {
	return &OrderPublisher{Writer: writer}
}

func (p *OrderPublisher) Publish(ctx context.Context, eventType string, order models.Order) error {
	if p == nil || p.Writer == nil {
		return nil
	}

	evt := OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		CookID:     order.CookID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now(),
	}

	payload, _ := json.Marshal(evt)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(order.ID), 10)),
		Value: payload,
	})
}
