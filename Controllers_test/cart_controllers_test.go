package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/cache"
	"github.com/homeplate/homeplate-app/controllers"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/services"
	"github.com/homeplate/homeplate-app/utils"
)

func setupTestDBForCart(t *testing.T, dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: models.RoleCustomer})
	db.Create(&models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Role: models.RoleCook})
	db.Create(&models.User{Name: "Carol", Email: "carol@example.com", Password: "x", Role: models.RoleCook})
	db.Create(&models.MenuItem{CookID: 2, Name: "Beef Rendang", Price: 10.00, Available: true})
	db.Create(&models.MenuItem{CookID: 3, Name: "Pad Thai", Price: 9.00, Available: true})
	db.Create(&models.MenuItem{CookID: 2, Name: "Sold Out Satay", Price: 8.00, Available: false})
	return db
}

func setupCartRouter(t *testing.T, db *gorm.DB, userID uint) *gin.Engine {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	carts := cache.NewCartStore(client, time.Hour)

	gin.SetMode(gin.TestMode)
	router := gin.Default()

	notifs := services.NewNotificationService(db)
	orders := services.NewOrderService(db, notifs, nil)
	cartCtrl := controllers.NewCartController(db, carts, orders)

	authed := router.Group("/", authAs(userID, models.RoleCustomer))
	authed.GET("/cart", cartCtrl.GetCart)
	authed.POST("/cart/items", cartCtrl.AddItem)
	authed.PATCH("/cart/items", cartCtrl.UpdateItem)
	authed.DELETE("/cart", cartCtrl.ClearCart)
	authed.POST("/cart/checkout", cartCtrl.Checkout)
	return router
}

func addToCart(router *gin.Engine, menuItemID uint, quantity int) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]interface{}{
		"menu_item_id": menuItemID,
		"quantity":     quantity,
	})
	req, _ := http.NewRequest("POST", "/cart/items", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartSingleCookInvariant(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "file:ctl_cart_cook?mode=memory&cache=shared")
	router := setupCartRouter(t, db, 1)

	w := addToCart(router, 1, 2)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	cart := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), cart["cook_id"])
	assert.Len(t, cart["items"], 1)

	// adding from a different cook replaces the cart
	w = addToCart(router, 2, 1)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	cart = resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), cart["cook_id"])
	items := cart["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "Pad Thai", items[0].(map[string]interface{})["name"])

	// same item merges quantity
	w = addToCart(router, 2, 2)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items = resp.Data.(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(3), items[0].(map[string]interface{})["quantity"])
}

func TestCartRejectsUnavailableItem(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "file:ctl_cart_unavail?mode=memory&cache=shared")
	router := setupCartRouter(t, db, 1)

	w := addToCart(router, 3, 1)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCart(t, "file:ctl_cart_checkout?mode=memory&cache=shared")
	router := setupCartRouter(t, db, 1)

	w := addToCart(router, 1, 2)
	assert.Equal(t, http.StatusOK, w.Code)

	payload, _ := json.Marshal(map[string]interface{}{
		"delivery_fee":     2.00,
		"tip":              1.00,
		"delivery_address": "12 Elm Street",
	})
	req, _ := http.NewRequest("POST", "/cart/checkout", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	assert.NoError(t, db.Preload("Items").First(&order).Error)
	assert.Equal(t, uint(1), order.CustomerID)
	assert.Equal(t, uint(2), order.CookID)
	assert.Equal(t, 23.00, order.Total)

	// cart is empty afterwards
	req, _ = http.NewRequest("GET", "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	cart := resp.Data.(map[string]interface{})
	assert.Empty(t, cart["items"])

	// checking out an empty cart is rejected
	req, _ = http.NewRequest("POST", "/cart/checkout", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
