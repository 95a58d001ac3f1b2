package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/live"
	"github.com/homeplate/homeplate-app/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LiveController struct {
	DB *gorm.DB
}

func NewLiveController(db *gorm.DB) *LiveController {
	return &LiveController{DB: db}
}

// UserFeed upgrades to a websocket subscribed to the authenticated user's
// feed: own order updates plus notifications.
func (lc *LiveController) UserFeed(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterUserClient(ws, userID)

	// hold the connection open; clients only listen on the feed
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.UnregisterClient(ws)
}

// OrderThread upgrades to a websocket subscribed to one order's chat
// thread; only the order's parties (or admins) may join.
func (lc *LiveController) OrderThread(c *gin.Context) {
	userID := c.GetUint("user_id")
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var order models.Order
	if err := lc.DB.First(&order, orderID).Error; err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	role, _ := c.Get("role")
	if userID != order.CustomerID && userID != order.CookID && role != models.RoleAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterOrderClient(ws, order.ID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.UnregisterClient(ws)
}
