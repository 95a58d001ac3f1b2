package models

import "time"

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CustomerID      uint        `gorm:"not null;index" json:"customer_id"`
	Customer        User        `gorm:"foreignKey:CustomerID" json:"-"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"type:varchar(30)" json:"customer_phone"`
	CookID          uint        `gorm:"not null;index" json:"cook_id"`
	Cook            User        `gorm:"foreignKey:CookID" json:"-"`
	CookName        string      `gorm:"type:varchar(255);not null" json:"cook_name"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     float64     `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Tip             float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tip"`
	Total           float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DeliveryAddress string      `gorm:"type:text;not null" json:"delivery_address"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	AcceptedAt      *time.Time  `json:"accepted_at,omitempty"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}
