package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/service"
)

type exchangeRequest struct {
	// Либо готовая сторона rub_to_usdt / usdt_to_rub по курсу сервера,
	// либо произвольная пара с курсом от клиента.
	Side string `json:"side"`

	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`

	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) exchange(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "malformed exchange request")
		return
	}

	var (
		res *service.ExchangeResult
		err error
	)
	if req.Side != "" {
		res, err = h.svc.ExchangeSide(c.Request.Context(), claims.UserID, req.Side, req.Amount)
	} else {
		res, err = h.svc.Exchange(c.Request.Context(), claims.UserID, req.FromCurrency, req.ToCurrency, req.Amount, req.Rate)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"fromCurrency": res.FromCurrency,
		"toCurrency":   res.ToCurrency,
		"fromAmount":   res.FromAmount,
		"toAmount":     res.ToAmount,
		"rate":         res.Rate,
		"balances":     res.NewBalances,
	})
}

func (h *Handler) exchangeRate(c *gin.Context) {
	rate := h.svc.RubUsdtRate()
	h.ok(c, gin.H{
		"rubToUsdt": rate,
		"usdtToRub": decimal.NewFromInt(1).Div(rate),
	})
}
