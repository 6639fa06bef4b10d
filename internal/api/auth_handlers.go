package api

import (
	"github.com/gin-gonic/gin"
	"github.com/trustex-app/trustex-core/internal/service"
)

type authRequest struct {
	InitData string `json:"initData" binding:"required"`
}

// authTelegram проверяет подпись initData мини-приложения, находит или
// создает пользователя и выдает JWT.
func (h *Handler) authTelegram(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "initData is required")
		return
	}

	profile, err := h.gateway.Authenticate(req.InitData)
	if err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.svc.GetOrCreateUser(c.Request.Context(), service.TelegramProfile{
		TelegramID: profile.ID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		PhotoURL:   profile.PhotoURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.gateway.IssueToken(user.ID, user.TelegramID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"token":      token,
		"user":       user,
		"isOperator": h.gateway.IsOperator(user.TelegramID),
	})
}

// getOrCreateUser — упрощенный вход без выдачи токена, используется
// фронтендом при первом открытии мини-приложения.
func (h *Handler) getOrCreateUser(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "initData is required")
		return
	}

	profile, err := h.gateway.Authenticate(req.InitData)
	if err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.svc.GetOrCreateUser(c.Request.Context(), service.TelegramProfile{
		TelegramID: profile.ID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		PhotoURL:   profile.PhotoURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, user)
}
