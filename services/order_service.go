package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/events"
	"github.com/homeplate/homeplate-app/live"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

// OrderService owns the order lifecycle: creation, status transitions and
// the notification fan-out to customer and cook.
type OrderService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Publisher     *events.OrderPublisher
}

func NewOrderService(db *gorm.DB, notifs *NotificationService, publisher *events.OrderPublisher) *OrderService {
	return &OrderService{DB: db, Notifications: notifs, Publisher: publisher}
}

type OrderItemInput struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderInput struct {
	CustomerID      uint
	CookID          uint             `json:"cook_id" binding:"required"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1"`
	DeliveryFee     float64          `json:"delivery_fee"`
	Tip             float64          `json:"tip"`
	DeliveryAddress string           `json:"delivery_address" binding:"required"`
}

// OrderResult is the discriminated result returned to write callers; read
// paths degrade to empty values instead.
type OrderResult struct {
	Success bool   `json:"success"`
	OrderID uint   `json:"order_id,omitempty"`
	Message string `json:"message"`
}

// CreateOrder persists the order, then attempts exactly two notification
// writes (cook and customer). Notification failures are logged and dropped;
// the order stands regardless.
func (s *OrderService) CreateOrder(input CreateOrderInput) OrderResult {
	var customer, cook models.User
	if err := s.DB.First(&customer, input.CustomerID).Error; err != nil {
		return OrderResult{Success: false, Message: "customer not found"}
	}
	if err := s.DB.Where("id = ? AND role = ?", input.CookID, models.RoleCook).First(&cook).Error; err != nil {
		return OrderResult{Success: false, Message: "cook not found"}
	}

	now := time.Now()
	order := models.Order{
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CookID:          cook.ID,
		CookName:        cook.Name,
		DeliveryFee:     input.DeliveryFee,
		Tip:             input.Tip,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		DeliveryAddress: input.DeliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		var items []models.OrderItem

		for _, in := range input.Items {
			var menuItem models.MenuItem
			if err := tx.Where("id = ? AND cook_id = ?", in.MenuItemID, cook.ID).First(&menuItem).Error; err != nil {
				return fmt.Errorf("menu item %d not found for this cook", in.MenuItemID)
			}
			if !menuItem.Available {
				return fmt.Errorf("menu item %q is not available", menuItem.Name)
			}
			subtotal += menuItem.Price * float64(in.Quantity)
			items = append(items, models.OrderItem{
				MenuItemID: menuItem.ID,
				Name:       menuItem.Name,
				Price:      menuItem.Price,
				Quantity:   in.Quantity,
				CreatedAt:  now,
			})
		}

		// total = subtotal + delivery fee + tip, fixed at creation time
		// and rounded to cents so float addition never leaks into totals
		order.Subtotal = roundCents(subtotal)
		order.Total = roundCents(order.Subtotal + order.DeliveryFee + order.Tip)
		order.Items = items

		return tx.Create(&order).Error
	})
	if err != nil {
		utils.ErrorLogger.Printf("create order: %v", err)
		return OrderResult{Success: false, Message: err.Error()}
	}

	// Exactly two best-effort notification writes; no retry on failure.
	s.sendBestEffort(models.Notification{
		UserID:     cook.ID,
		Type:       models.NotifNewOrder,
		Title:      "New Order Received",
		Message:    fmt.Sprintf("%s placed an order for %s", customer.Name, utils.FormatCurrency(order.Total)),
		OrderID:    &order.ID,
		CustomerID: &customer.ID,
	})
	s.sendBestEffort(models.Notification{
		UserID:  customer.ID,
		Type:    models.NotifOrderStatus,
		Title:   "Order Confirmed",
		Message: fmt.Sprintf("Your order from %s has been placed.", cook.Name),
		OrderID: &order.ID,
		CookID:  &cook.ID,
	})

	live.PushNewOrder(order)
	live.PushOrderUpdate(order)

	if err := s.Publisher.Publish(context.Background(), events.TypeOrderCreated, order); err != nil {
		utils.ErrorLogger.Printf("publish order_created for order %d: %v", order.ID, err)
	}

	return OrderResult{Success: true, OrderID: order.ID, Message: "Order created"}
}

// roundCents snaps a money amount to two decimals.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *OrderService) sendBestEffort(notif models.Notification) {
	if _, err := s.Notifications.Send(notif); err != nil {
		utils.ErrorLogger.Printf("notification to user %d dropped: %v", notif.UserID, err)
	}
}

// statusTemplate holds the fixed customer-facing message per status; any
// status without an entry falls back to a generic update line.
type statusMessage struct {
	Title   string
	Message string
}

var statusTemplates = map[string]statusMessage{
	models.OrderAccepted:  {"Accepted", "Your order has been accepted and will be prepared soon."},
	models.OrderCooking:   {"Cooking", "Your order is being prepared."},
	models.OrderReady:     {"Ready", "Your order is ready and out for delivery."},
	models.OrderDelivered: {"Delivered", "Your order has been delivered. Enjoy your meal!"},
	models.OrderCancelled: {"Cancelled", "Your order has been cancelled."},
}

func statusTemplate(status string) statusMessage {
	if tmpl, ok := statusTemplates[status]; ok {
		return tmpl
	}
	return statusMessage{"Order Update", fmt.Sprintf("Your order status changed to %s.", status)}
}

// UpdateOrderStatus validates the transition against the lifecycle table,
// persists it and sends exactly one templated notification to the customer.
func (s *OrderService) UpdateOrderStatus(orderID uint, status string) (models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		return models.Order{}, err
	}

	if err := order.ApplyTransition(status, time.Now()); err != nil {
		return models.Order{}, err
	}

	if err := s.DB.Save(&order).Error; err != nil {
		return models.Order{}, err
	}

	tmpl := statusTemplate(status)
	s.sendBestEffort(models.Notification{
		UserID:  order.CustomerID,
		Type:    models.NotifOrderStatus,
		Title:   tmpl.Title,
		Message: tmpl.Message,
		OrderID: &order.ID,
		CookID:  &order.CookID,
	})

	live.PushOrderUpdate(order)

	if err := s.Publisher.Publish(context.Background(), events.TypeStatusChanged, order); err != nil {
		utils.ErrorLogger.Printf("publish status_changed for order %d: %v", order.ID, err)
	}

	return order, nil
}

// UpdatePaymentStatus is a single-field write; it sends no notification.
func (s *OrderService) UpdatePaymentStatus(orderID uint, status string) error {
	switch status {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
	default:
		return errors.New("unknown payment status")
	}

	res := s.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"payment_status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOrderByID loads one order with its items.
func (s *OrderService) GetOrderByID(orderID uint) (models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").First(&order, orderID).Error
	return order, err
}

// GetOrdersByCustomer lists a customer's orders, newest first.
func (s *OrderService) GetOrdersByCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// GetOrdersByCook lists a cook's incoming orders, newest first.
func (s *OrderService) GetOrdersByCook(cookID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("cook_id = ?", cookID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}
