package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

// VerificationService tracks cook KYC sessions. The vendor integration is a
// stub: session ids are generated locally and decisions arrive through the
// admin endpoint instead of a vendor webhook.
type VerificationService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewVerificationService(db *gorm.DB, notifs *NotificationService) *VerificationService {
	return &VerificationService{DB: db, Notifications: notifs}
}

// StartVerification opens a KYC session for the cook. An existing pending or
// approved record is returned as-is; a rejected cook may retry.
func (s *VerificationService) StartVerification(cookID uint) (models.CookVerification, error) {
	var cook models.User
	if err := s.DB.Where("id = ? AND role = ?", cookID, models.RoleCook).First(&cook).Error; err != nil {
		return models.CookVerification{}, errors.New("cook not found")
	}

	var existing models.CookVerification
	err := s.DB.Where("cook_id = ?", cookID).First(&existing).Error
	if err == nil && existing.Status != models.VerificationRejected {
		return existing, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CookVerification{}, err
	}

	now := time.Now()
	verification := models.CookVerification{
		CookID:    cookID,
		SessionID: uuid.NewString(),
		Status:    models.VerificationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if existing.ID != 0 {
		verification.ID = existing.ID
		verification.CreatedAt = existing.CreatedAt
		if err := s.DB.Save(&verification).Error; err != nil {
			return models.CookVerification{}, err
		}
	} else if err := s.DB.Create(&verification).Error; err != nil {
		return models.CookVerification{}, err
	}

	utils.InfoLogger.Printf("KYC session %s opened for cook %d", verification.SessionID, cookID)
	return verification, nil
}

// SubmitDecision records the verification outcome for a session and tells
// the cook about it.
func (s *VerificationService) SubmitDecision(sessionID string, approved bool, note string) (models.CookVerification, error) {
	var verification models.CookVerification
	if err := s.DB.Where("session_id = ?", sessionID).First(&verification).Error; err != nil {
		return models.CookVerification{}, err
	}
	if verification.Status != models.VerificationPending {
		return models.CookVerification{}, errors.New("verification already decided")
	}

	verification.Status = models.VerificationRejected
	title := "Verification Rejected"
	message := "Your kitchen verification was rejected."
	if approved {
		verification.Status = models.VerificationApproved
		title = "Verification Approved"
		message = "Your kitchen verification was approved. You can start taking orders."
	}
	verification.Note = note
	verification.UpdatedAt = time.Now()

	if err := s.DB.Save(&verification).Error; err != nil {
		return models.CookVerification{}, err
	}

	if _, err := s.Notifications.Send(models.Notification{
		UserID:  verification.CookID,
		Type:    models.NotifSystem,
		Title:   title,
		Message: message,
	}); err != nil {
		utils.ErrorLogger.Printf("verification notification to cook %d dropped: %v", verification.CookID, err)
	}

	return verification, nil
}

// GetStatus returns the cook's verification record, if any.
func (s *VerificationService) GetStatus(cookID uint) (models.CookVerification, error) {
	var verification models.CookVerification
	err := s.DB.Where("cook_id = ?", cookID).First(&verification).Error
	return verification, err
}
