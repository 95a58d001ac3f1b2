package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/live"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

// ChangeMonitor drains the db_changes feed and re-broadcasts rows so live
// subscribers converge with writes from other instances or manual SQL. On
// MySQL the triggers also fire for this process's own writes, so a
// subscriber may see the same snapshot twice; pushes carry full records and
// re-delivery is harmless.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("change monitor: fetch changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "orders":
			cm.processOrderChange(change)
		case "notifications":
			cm.processNotificationChange(change)
		case "chat_messages":
			cm.processChatChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("change monitor: mark processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: commit: %v", err)
		tx.Rollback()
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var order models.Order
	if err := cm.DB.Preload("Items").First(&order, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: fetch order %d: %v", change.RecordID, err)
		return
	}

	if change.ActionType == "INSERT" {
		live.PushNewOrder(order)
	}
	live.PushOrderUpdate(order)
}

func (cm *ChangeMonitor) processNotificationChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}

	var notif models.Notification
	if err := cm.DB.First(&notif, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: fetch notification %d: %v", change.RecordID, err)
		return
	}
	live.PushNotification(notif)
}

func (cm *ChangeMonitor) processChatChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}

	var msg models.ChatMessage
	if err := cm.DB.First(&msg, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: fetch chat message %d: %v", change.RecordID, err)
		return
	}
	live.PushChatMessage(msg)
}
