package api

import (
	"github.com/gin-gonic/gin"
	"github.com/trustex-app/trustex-core/internal/apperr"
)

// getUser возвращает профиль и балансы по всем кошелькам.
func (h *Handler) getUser(c *gin.Context) {
	userID := c.Param("userId")
	if !canAccess(c, userID) {
		h.fail(c, apperr.ErrNotFound)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	balances, err := h.svc.Balances(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{"user": user, "balances": balances})
}

func (h *Handler) submitVerification(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	if err := h.svc.SubmitVerification(c.Request.Context(), claims.UserID); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"status": "submitted"})
}

type userStatusRequest struct {
	UserID string `json:"userId" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (h *Handler) setUserStatus(c *gin.Context) {
	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "userId and status are required")
		return
	}

	if err := h.svc.SetUserStatus(c.Request.Context(), req.UserID, req.Status); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"userId": req.UserID, "status": req.Status})
}

type reviewVerificationRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Approve *bool  `json:"approve" binding:"required"`
}

func (h *Handler) reviewVerification(c *gin.Context) {
	var req reviewVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "userId and approve are required")
		return
	}

	if err := h.svc.ReviewVerification(c.Request.Context(), req.UserID, *req.Approve); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"userId": req.UserID, "approved": *req.Approve})
}
