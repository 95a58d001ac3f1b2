package models

import "time"

const (
	RoleCustomer = "customer"
	RoleCook     = "cook"
	RoleAdmin    = "admin"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Email       string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	Role        string    `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone"`
	Address     string    `gorm:"type:text" json:"address"`
	KitchenName *string   `gorm:"type:varchar(255)" json:"kitchen_name,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
