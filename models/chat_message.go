package models

import "time"

const (
	SenderCustomer = "customer"
	SenderCook     = "cook"
)

// ChatMessage is append-only; messages are never edited or deleted.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	SenderName string    `gorm:"type:varchar(255);not null" json:"sender_name"`
	SenderType string    `gorm:"type:varchar(20);not null" json:"sender_type"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
