package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/services"
	"github.com/homeplate/homeplate-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func orderParty(c *gin.Context, order models.Order) bool {
	userID := c.GetUint("user_id")
	role, _ := c.Get("role")
	return userID == order.CustomerID || userID == order.CookID || role == models.RoleAdmin
}

// CreateOrder places an order for the authenticated customer.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	input.CustomerID = c.GetUint("user_id")

	result := oc.Orders.CreateOrder(input)
	if !result.Success {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New(result.Message))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, result.Message, result)
}

// GetOrderByID returns one order; only the order's parties and admins see it.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := oc.Orders.GetOrderByID(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !orderParty(c, order) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetMyOrders lists the authenticated customer's orders, newest first.
// Read failures degrade to an empty list.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := oc.Orders.GetOrdersByCustomer(c.GetUint("user_id"))
	if err != nil {
		utils.ErrorLogger.Printf("list customer orders: %v", err)
		orders = []models.Order{}
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", orders)
}

// GetCookOrders lists incoming orders for the authenticated cook.
func (oc *OrderController) GetCookOrders(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleCook && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orders, err := oc.Orders.GetOrdersByCook(c.GetUint("user_id"))
	if err != nil {
		utils.ErrorLogger.Printf("list cook orders: %v", err)
		orders = []models.Order{}
	}
	utils.RespondJSON(c, http.StatusOK, "Incoming orders", orders)
}

// UpdateStatus moves the order through its lifecycle. Cooks drive the happy
// path; customers may only cancel; admins may do either.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.GetOrderByID(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID := c.GetUint("user_id")
	role, _ := c.Get("role")
	switch {
	case role == models.RoleAdmin:
	case userID == order.CookID:
	case userID == order.CustomerID && req.Status == models.OrderCancelled:
	default:
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	updated, err := oc.Orders.UpdateOrderStatus(order.ID, req.Status)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", updated)
}

// UpdatePaymentStatus is an admin-only single-field write.
func (oc *OrderController) UpdatePaymentStatus(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Orders.UpdatePaymentStatus(uint(id), req.PaymentStatus); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status updated", gin.H{"order_id": id})
}
