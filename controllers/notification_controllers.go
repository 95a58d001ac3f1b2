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

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifs *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifs}
}

// GetMyNotifications lists the authenticated user's notifications, newest
// first. Read failures degrade to an empty list.
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	notifs, err := nc.Notifications.ListByUser(c.GetUint("user_id"))
	if err != nil {
		utils.ErrorLogger.Printf("list notifications: %v", err)
		notifs = []models.Notification{}
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// GetUnreadCount returns the unread badge count.
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	count, err := nc.Notifications.UnreadCount(c.GetUint("user_id"))
	if err != nil {
		utils.ErrorLogger.Printf("unread count: %v", err)
		count = 0
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

// MarkAsRead flips one notification to read.
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	if err := nc.Notifications.MarkAsRead(c.GetUint("user_id"), uint(id)); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"notif_id": id})
}

// MarkAllAsRead flips every unread notification for the user.
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	if err := nc.Notifications.MarkAllAsRead(c.GetUint("user_id")); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}

// DeleteNotification removes one of the user's notifications.
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	if err := nc.Notifications.Delete(c.GetUint("user_id"), uint(id)); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
