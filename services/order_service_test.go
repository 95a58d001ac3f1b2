package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

func setupOrderServiceTest(t *testing.T, dsn string) (*OrderService, *gorm.DB) {
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
		&models.ChatMessage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: models.RoleCustomer, Phone: "555-0101"})
	db.Create(&models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Role: models.RoleCook})
	db.Create(&models.MenuItem{CookID: 2, Name: "Beef Rendang", Price: 10.00, Available: true})

	notifs := NewNotificationService(db)
	return NewOrderService(db, notifs, nil), db
}

func TestCreateOrderTotals(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_totals?mode=memory&cache=shared")

	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 2}},
		DeliveryFee:     3.99,
		Tip:             2.00,
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, result.Success)
	assert.NotZero(t, result.OrderID)

	var order models.Order
	assert.NoError(t, db.Preload("Items").First(&order, result.OrderID).Error)
	assert.Equal(t, 20.00, order.Subtotal)
	assert.Equal(t, 25.99, order.Total)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Beef Rendang", order.Items[0].Name)

	// exactly two notification writes: one to the cook, one to the customer
	var notifs []models.Notification
	assert.NoError(t, db.Order("id asc").Find(&notifs).Error)
	assert.Len(t, notifs, 2)
	assert.Equal(t, uint(2), notifs[0].UserID)
	assert.Equal(t, "New Order Received", notifs[0].Title)
	assert.Equal(t, models.NotifNewOrder, notifs[0].Type)
	assert.Equal(t, uint(1), notifs[1].UserID)
	assert.Equal(t, "Order Confirmed", notifs[1].Title)
	assert.False(t, notifs[0].IsRead)
}

func TestCreateOrderRoundsToCents(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_cents?mode=memory&cache=shared")
	db.Create(&models.MenuItem{CookID: 2, Name: "Spring Roll", Price: 1.10, Available: true})

	// 1.10 * 3 and the fee/tip sum both fall off exact binary representation
	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 2, Quantity: 3}},
		DeliveryFee:     0.35,
		Tip:             0.05,
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, result.Success)

	var order models.Order
	assert.NoError(t, db.First(&order, result.OrderID).Error)
	assert.Equal(t, 3.30, order.Subtotal)
	assert.Equal(t, 3.70, order.Total)
}

func TestCreateOrderSurvivesNotificationFailure(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_notiffail?mode=memory&cache=shared")

	// make every notification write fail
	assert.NoError(t, db.Migrator().DropTable(&models.Notification{}))

	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 1}},
		DeliveryFee:     1.00,
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, result.Success)

	// the order stands even though both notification writes were dropped
	var order models.Order
	assert.NoError(t, db.Preload("Items").First(&order, result.OrderID).Error)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 11.00, order.Total)
}

func TestCreateOrderUnknownItem(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_unknown?mode=memory&cache=shared")

	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 99, Quantity: 1}},
		DeliveryAddress: "12 Elm Street",
	})
	assert.False(t, result.Success)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateOrderStatusNotifications(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_status?mode=memory&cache=shared")

	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 1}},
		DeliveryFee:     1.50,
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, result.Success)

	order, err := svc.UpdateOrderStatus(result.OrderID, models.OrderAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, order.Status)
	assert.NotNil(t, order.AcceptedAt)

	// one templated notification to the customer for the transition
	var notifs []models.Notification
	assert.NoError(t, db.Where("user_id = ? AND type = ?", 1, models.NotifOrderStatus).
		Order("id asc").Find(&notifs).Error)
	assert.Len(t, notifs, 2) // "Order Confirmed" + "Accepted"
	assert.Equal(t, "Accepted", notifs[1].Title)
	assert.Equal(t, "Your order has been accepted and will be prepared soon.", notifs[1].Message)
}

func TestUpdateOrderStatusRejectsIllegalTransition(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_illegal?mode=memory&cache=shared")

	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 1}},
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, result.Success)

	// pending -> delivered skips the lifecycle
	_, err := svc.UpdateOrderStatus(result.OrderID, models.OrderDelivered)
	assert.Error(t, err)

	var order models.Order
	assert.NoError(t, db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.OrderPending, order.Status)

	// cancelled absorbs from any non-terminal state
	_, err = svc.UpdateOrderStatus(result.OrderID, models.OrderCancelled)
	assert.NoError(t, err)
	_, err = svc.UpdateOrderStatus(result.OrderID, models.OrderAccepted)
	assert.Error(t, err)
}

func TestStatusTemplateFallback(t *testing.T) {
	tmpl := statusTemplate("refunded")
	assert.Equal(t, "Order Update", tmpl.Title)
	assert.Contains(t, tmpl.Message, "refunded")

	tmpl = statusTemplate(models.OrderReady)
	assert.Equal(t, "Ready", tmpl.Title)
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "file:ordersvc_payment?mode=memory&cache=shared")

	result := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 1}},
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, result.Success)

	var before int64
	db.Model(&models.Notification{}).Count(&before)

	assert.NoError(t, svc.UpdatePaymentStatus(result.OrderID, models.PaymentPaid))
	assert.Error(t, svc.UpdatePaymentStatus(result.OrderID, "voided"))
	assert.Error(t, svc.UpdatePaymentStatus(9999, models.PaymentPaid))

	var order models.Order
	assert.NoError(t, db.First(&order, result.OrderID).Error)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)

	// payment updates never notify
	var after int64
	db.Model(&models.Notification{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestGetOrdersByCustomerOrdering(t *testing.T) {
	svc, _ := setupOrderServiceTest(t, "file:ordersvc_listing?mode=memory&cache=shared")

	first := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 1}},
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, first.Success)
	time.Sleep(10 * time.Millisecond)
	second := svc.CreateOrder(CreateOrderInput{
		CustomerID:      1,
		CookID:          2,
		Items:           []OrderItemInput{{MenuItemID: 1, Quantity: 3}},
		DeliveryAddress: "12 Elm Street",
	})
	assert.True(t, second.Success)

	orders, err := svc.GetOrdersByCustomer(1)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	// newest first
	assert.Equal(t, second.OrderID, orders[0].ID)
	assert.Equal(t, first.OrderID, orders[1].ID)
}
