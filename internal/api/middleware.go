package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trustex-app/trustex-core/internal/auth"
)

const claimsKey = "authClaims"

// authMiddleware проверяет Bearer JWT и кладет claims в контекст запроса.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authorization token required"})
			return
		}

		claims, err := h.gateway.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// operatorMiddleware пропускает только операторов из ADMIN_IDS.
func (h *Handler) operatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil || !claims.IsOperator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "operator access required"})
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// canAccess: пользователь видит только свои данные, оператор — любые.
func canAccess(c *gin.Context, userID string) bool {
	claims := currentClaims(c)
	if claims == nil {
		return false
	}
	return claims.IsOperator || claims.UserID == userID
}
