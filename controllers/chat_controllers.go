package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homeplate/homeplate-app/services"
	"github.com/homeplate/homeplate-app/utils"
)

type ChatController struct {
	Orders        *services.OrderService
	Notifications *services.NotificationService
}

func NewChatController(orders *services.OrderService, notifs *services.NotificationService) *ChatController {
	return &ChatController{Orders: orders, Notifications: notifs}
}

// SendMessage appends a message to the order's chat thread.
func (cc *ChatController) SendMessage(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	msg, err := cc.Notifications.SendChatMessage(uint(orderID), c.GetUint("user_id"), req.Message)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Message sent", msg)
}

// GetThread returns the order's chat history, oldest first; only the
// order's parties (or admins) may read it.
func (cc *ChatController) GetThread(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := cc.Orders.GetOrderByID(uint(orderID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !orderParty(c, order) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	msgs, err := cc.Notifications.ListChat(order.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Chat thread", msgs)
}
