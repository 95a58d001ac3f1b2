package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/services"
	"github.com/homeplate/homeplate-app/utils"
)

type VerificationController struct {
	Verifications *services.VerificationService
}

func NewVerificationController(verifications *services.VerificationService) *VerificationController {
	return &VerificationController{Verifications: verifications}
}

// StartVerification opens a KYC session for the authenticated cook.
func (vc *VerificationController) StartVerification(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleCook {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	verification, err := vc.Verifications.StartVerification(c.GetUint("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Verification session opened", verification)
}

// GetStatus returns the cook's own verification state.
func (vc *VerificationController) GetStatus(c *gin.Context) {
	verification, err := vc.Verifications.GetStatus(c.GetUint("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Verification status", verification)
}

// SubmitDecision records the outcome for a session; stands in for the
// vendor webhook and is admin-only.
func (vc *VerificationController) SubmitDecision(c *gin.Context) {
	if role, _ := c.Get("role"); role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		Approved  bool   `json:"approved"`
		Note      string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	verification, err := vc.Verifications.SubmitDecision(req.SessionID, req.Approved, req.Note)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Verification decided", verification)
}
