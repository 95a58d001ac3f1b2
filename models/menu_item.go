package models

import "time"

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CookID      uint      `gorm:"not null;index" json:"cook_id"`
	Cook        User      `gorm:"foreignKey:CookID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	ImageUrl    *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
