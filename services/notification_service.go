package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/live"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

// NotificationService persists notifications and chat messages and pushes
// them onto the live feeds.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Send appends a notification with is_read=false and pushes it to the
// recipient's feed.
func (s *NotificationService) Send(notif models.Notification) (models.Notification, error) {
	notif.IsRead = false
	notif.CreatedAt = time.Now()
	if notif.Type == "" {
		notif.Type = models.NotifSystem
	}

	if err := s.DB.Create(&notif).Error; err != nil {
		return models.Notification{}, err
	}

	live.PushNotification(notif)
	return notif, nil
}

// ListByUser returns a user's notifications, newest first.
func (s *NotificationService) ListByUser(userID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifs).Error
	return notifs, err
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips one notification to read. The write is persisted, not
// just applied to client state; other devices converge via the feed push.
func (s *NotificationService) MarkAsRead(userID, notifID uint) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notifID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllAsRead flips every unread notification for the user.
func (s *NotificationService) MarkAllAsRead(userID uint) error {
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(userID, notifID uint) error {
	res := s.DB.Where("id = ? AND user_id = ?", notifID, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SendChatMessage appends a message to the order thread and notifies the
// counterparty. The recipient is resolved from the order's customer/cook
// ids, never from the sender's role label.
func (s *NotificationService) SendChatMessage(orderID, senderID uint, text string) (models.ChatMessage, error) {
	if text == "" {
		return models.ChatMessage{}, errors.New("message text is required")
	}

	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		return models.ChatMessage{}, err
	}

	var senderType, senderName string
	var recipientID uint
	switch senderID {
	case order.CustomerID:
		senderType = models.SenderCustomer
		senderName = order.CustomerName
		recipientID = order.CookID
	case order.CookID:
		senderType = models.SenderCook
		senderName = order.CookName
		recipientID = order.CustomerID
	default:
		return models.ChatMessage{}, errors.New("sender is not a party to this order")
	}

	msg := models.ChatMessage{
		OrderID:    order.ID,
		SenderID:   senderID,
		SenderName: senderName,
		SenderType: senderType,
		Message:    text,
		CreatedAt:  time.Now(),
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return models.ChatMessage{}, err
	}

	live.PushChatMessage(msg)

	// companion notification, best-effort like the order fan-out
	if _, err := s.Send(models.Notification{
		UserID:     recipientID,
		Type:       models.NotifChatMessage,
		Title:      "New Message",
		Message:    fmt.Sprintf("%s: %s", senderName, text),
		OrderID:    &order.ID,
		CookID:     &order.CookID,
		CustomerID: &order.CustomerID,
	}); err != nil {
		utils.ErrorLogger.Printf("chat notification to user %d dropped: %v", recipientID, err)
	}

	return msg, nil
}

// ListChat returns the order's chat thread, oldest first.
func (s *NotificationService) ListChat(orderID uint) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.DB.Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}
