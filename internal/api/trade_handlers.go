package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
)

type createTradeRequest struct {
	Currency  string          `json:"currency" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction" binding:"required"`
	Symbol    string          `json:"symbol" binding:"required"`
	Duration  int             `json:"duration" binding:"required"`
}

func (h *Handler) createTrade(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "currency, amount, direction, symbol and duration are required")
		return
	}

	trade, err := h.svc.OpenTrade(c.Request.Context(), claims.UserID, req.Currency, req.Amount, req.Direction, req.Symbol, req.Duration)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, trade)
}

func (h *Handler) closeTrade(c *gin.Context) {
	res, err := h.svc.CloseTrade(c.Request.Context(), c.Param("tradeId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	// Чужая сделка выглядит как отсутствующая.
	if !canAccess(c, res.Trade.UserID) {
		h.fail(c, apperr.ErrNotFound)
		return
	}

	h.ok(c, gin.H{
		"trade":      res.Trade,
		"settled":    res.Settled,
		"profit":     res.Profit,
		"newBalance": res.NewBalance,
	})
}

func (h *Handler) listTrades(c *gin.Context) {
	userID := c.Param("userId")
	if !canAccess(c, userID) {
		h.fail(c, apperr.ErrNotFound)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	trades, err := h.svc.Trades(c.Request.Context(), userID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, trades)
}

type setTradeModeRequest struct {
	UserID string `json:"userId" binding:"required"`
	Mode   string `json:"mode" binding:"required"`
}

func (h *Handler) setTradeMode(c *gin.Context) {
	var req setTradeModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "userId and mode are required")
		return
	}

	if err := h.svc.SetTradeMode(c.Request.Context(), req.UserID, req.Mode); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"userId": req.UserID, "mode": req.Mode})
}
