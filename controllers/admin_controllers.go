package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats returns order counts per status, revenue from delivered
// orders and pending verification count for the admin portal.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var stats struct {
		OrdersByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"orders_by_status"`
		DeliveredRevenue     float64 `json:"delivered_revenue"`
		TotalUsers           int64   `json:"total_users"`
		TotalCooks           int64   `json:"total_cooks"`
		PendingVerifications int64   `json:"pending_verifications"`
	}

	ac.DB.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats.OrdersByStatus)

	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderDelivered).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&stats.DeliveredRevenue)

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleCook).Count(&stats.TotalCooks)
	ac.DB.Model(&models.CookVerification{}).
		Where("status = ?", models.VerificationPending).
		Count(&stats.PendingVerifications)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetAllOrders lists every order for the admin portal.
func (ac *AdminController) GetAllOrders(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var orders []models.Order
	if err := ac.DB.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("admin list orders: %v", err)
		orders = []models.Order{}
	}
	utils.RespondJSON(c, http.StatusOK, "All orders", orders)
}

// GetAllUsers lists every account for the admin portal.
func (ac *AdminController) GetAllUsers(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var users []models.User
	if err := ac.DB.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}
