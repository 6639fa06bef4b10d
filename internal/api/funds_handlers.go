package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
)

type fundsRequest struct {
	Currency    string          `json:"currency" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Destination string          `json:"destination"`
}

func (h *Handler) requestDeposit(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var req fundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "currency and amount are required")
		return
	}

	dep, err := h.svc.RequestDeposit(c.Request.Context(), claims.UserID, req.Currency, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dep)
}

func (h *Handler) requestWithdrawal(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var req fundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "currency and amount are required")
		return
	}

	wd, newBalance, err := h.svc.RequestWithdrawal(c.Request.Context(), claims.UserID, req.Currency, req.Amount, req.Destination)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"request": wd, "newBalance": newBalance})
}

func (h *Handler) listTransactions(c *gin.Context) {
	userID := c.Param("userId")
	if !canAccess(c, userID) {
		h.fail(c, apperr.ErrNotFound)
		return
	}

	txs, err := h.svc.Transactions(c.Request.Context(), userID, c.Query("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, txs)
}

type resolveRequest struct {
	RequestID string `json:"requestId" binding:"required"`
}

func (h *Handler) confirmDeposit(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "requestId is required")
		return
	}

	dep, err := h.svc.ApproveDeposit(c.Request.Context(), req.RequestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dep)
}

func (h *Handler) rejectDeposit(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "requestId is required")
		return
	}

	dep, err := h.svc.RejectDeposit(c.Request.Context(), req.RequestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dep)
}

func (h *Handler) confirmWithdrawal(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "requestId is required")
		return
	}

	wd, err := h.svc.ApproveWithdrawal(c.Request.Context(), req.RequestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, wd)
}

func (h *Handler) rejectWithdrawal(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "requestId is required")
		return
	}

	wd, err := h.svc.RejectWithdrawal(c.Request.Context(), req.RequestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, wd)
}

func (h *Handler) pendingDeposits(c *gin.Context) {
	deposits, err := h.svc.PendingDeposits(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, deposits)
}

func (h *Handler) pendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.svc.PendingWithdrawals(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, withdrawals)
}
