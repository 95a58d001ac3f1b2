package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/cache"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/services"
	"github.com/homeplate/homeplate-app/utils"
)

type CartController struct {
	DB     *gorm.DB
	Carts  *cache.CartStore
	Orders *services.OrderService
}

func NewCartController(db *gorm.DB, carts *cache.CartStore, orders *services.OrderService) *CartController {
	return &CartController{DB: db, Carts: carts, Orders: orders}
}

// GetCart returns the customer's current cart.
func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.Carts.Get(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", cart)
}

// AddItem puts a menu item in the cart. Items from a different cook replace
// the whole cart.
func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menuItem models.MenuItem
	if err := cc.DB.Preload("Cook").First(&menuItem, req.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !menuItem.Available {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("menu item is not available"))
		return
	}

	cart, err := cc.Carts.AddItem(c.Request.Context(), c.GetUint("user_id"), menuItem.CookID, menuItem.Cook.Name, models.CartItem{
		MenuItemID: menuItem.ID,
		Name:       menuItem.Name,
		Price:      menuItem.Price,
		Quantity:   req.Quantity,
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item added to cart", cart)
}

// UpdateItem changes an item's quantity; zero removes it.
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart, err := cc.Carts.UpdateQuantity(c.Request.Context(), c.GetUint("user_id"), req.MenuItemID, req.Quantity)
	if err != nil {
		if errors.Is(err, cache.ErrItemNotInCart) {
			utils.RespondError(c, http.StatusNotFound, err)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart updated", cart)
}

// ClearCart empties the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.Carts.Clear(c.Request.Context(), c.GetUint("user_id")); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}

// Checkout turns the cart into an order and clears it on success.
func (cc *CartController) Checkout(c *gin.Context) {
	var req struct {
		DeliveryFee     float64 `json:"delivery_fee"`
		Tip             float64 `json:"tip"`
		DeliveryAddress string  `json:"delivery_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	cart, err := cc.Carts.Get(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(cart.Items) == 0 {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("cart is empty"))
		return
	}

	input := services.CreateOrderInput{
		CustomerID:      userID,
		CookID:          cart.CookID,
		DeliveryFee:     req.DeliveryFee,
		Tip:             req.Tip,
		DeliveryAddress: req.DeliveryAddress,
	}
	for _, it := range cart.Items {
		input.Items = append(input.Items, services.OrderItemInput{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
		})
	}

	result := cc.Orders.CreateOrder(input)
	if !result.Success {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New(result.Message))
		return
	}

	if err := cc.Carts.Clear(c.Request.Context(), userID); err != nil {
		utils.ErrorLogger.Printf("clear cart after checkout: %v", err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", result)
}
