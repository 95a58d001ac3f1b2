package models

import "time"

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// CookVerification tracks a cook's KYC session. The vendor integration is
// stubbed: SessionID is generated locally and no live API is called.
type CookVerification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CookID    uint      `gorm:"not null;uniqueIndex" json:"cook_id"`
	Cook      User      `gorm:"foreignKey:CookID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SessionID string    `gorm:"type:varchar(64);not null" json:"session_id"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
