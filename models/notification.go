package models

import "time"

const (
	NotifOrderStatus = "order_status"
	NotifNewOrder    = "new_order"
	NotifChatMessage = "chat_message"
	NotifSystem      = "system"
)

// Notification is created once and only ever mutated to flip IsRead.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type       string    `gorm:"type:varchar(20);not null;default:'system'" json:"type"`
	Title      string    `gorm:"type:varchar(100);not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	OrderID    *uint     `gorm:"index" json:"order_id,omitempty"`
	CookID     *uint     `json:"cook_id,omitempty"`
	CustomerID *uint     `json:"customer_id,omitempty"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
