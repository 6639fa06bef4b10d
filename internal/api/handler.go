package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/auth"
	"github.com/trustex-app/trustex-core/internal/service"
	"github.com/trustex-app/trustex-core/utils"
)

type Handler struct {
	svc     *service.Service
	gateway *auth.Gateway
	logger  *utils.Logger
}

func NewHandler(svc *service.Service, gateway *auth.Gateway, logger *utils.Logger) *Handler {
	return &Handler{svc: svc, gateway: gateway, logger: logger}
}

// NewRouter собирает все маршруты REST API.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/auth/telegram", h.authTelegram)
		api.POST("/user", h.getOrCreateUser)

		authed := api.Group("", h.authMiddleware())
		{
			authed.GET("/user/:userId", h.getUser)
			authed.POST("/verification/submit", h.submitVerification)

			authed.POST("/trades/create", h.createTrade)
			authed.POST("/trades/close/:tradeId", h.closeTrade)
			authed.GET("/trades/:userId", h.listTrades)

			authed.POST("/transactions/deposit", h.requestDeposit)
			authed.POST("/transactions/withdraw", h.requestWithdrawal)
			authed.GET("/transactions/:userId", h.listTransactions)

			authed.POST("/exchange", h.exchange)
			authed.GET("/exchange/rate", h.exchangeRate)

			authed.GET("/analytics/:userId/:period", h.analytics)

			operator := authed.Group("", h.operatorMiddleware())
			{
				operator.POST("/trades/set-mode", h.setTradeMode)
				operator.POST("/transactions/deposit/confirm", h.confirmDeposit)
				operator.POST("/transactions/deposit/reject", h.rejectDeposit)
				operator.POST("/transactions/withdraw/confirm", h.confirmWithdrawal)
				operator.POST("/transactions/withdraw/reject", h.rejectWithdrawal)
				operator.POST("/verification/review", h.reviewVerification)

				admin := operator.Group("/admin")
				{
					admin.GET("/deposits", h.pendingDeposits)
					admin.GET("/withdrawals", h.pendingWithdrawals)
					admin.POST("/users/status", h.setUserStatus)
				}
			}
		}
	}

	return r
}

func (h *Handler) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// fail переводит ошибку сервиса в HTTP статус. Ошибочный статус —
// авторитетное свидетельство, что средства не двигались.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrInsufficientFunds):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyResolved):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrUserBlocked):
		status = http.StatusForbidden
	default:
		h.logger.Errorf("❌ Internal error: %v", err)
	}

	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func (h *Handler) failValidation(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
