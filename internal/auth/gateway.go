package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/trustex-app/trustex-core/internal/apperr"
)

const tokenTTL = 24 * time.Hour

// Gateway отвечает за проверку личности Telegram и выдачу токенов.
// Ядро сервиса получает уже авторизованный контекст и не сверяет id само.
type Gateway struct {
	botToken  string
	jwtSecret []byte
	operators map[int64]bool
}

// Claims пользовательского токена. IsOperator взводится только для
// telegram id из списка ADMIN_IDS.
type Claims struct {
	UserID     string `json:"uid"`
	TelegramID int64  `json:"tid"`
	IsOperator bool   `json:"op"`
	jwt.RegisteredClaims
}

func NewGateway(botToken, jwtSecret string, adminIDs []int64) *Gateway {
	operators := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		operators[id] = true
	}
	return &Gateway{
		botToken:  botToken,
		jwtSecret: []byte(jwtSecret),
		operators: operators,
	}
}

// Authenticate проверяет подпись initData и возвращает профиль Telegram.
func (g *Gateway) Authenticate(initData string) (*TelegramUser, error) {
	return VerifyInitData(initData, g.botToken)
}

// IsOperator проверяет telegram id по списку операторов.
func (g *Gateway) IsOperator(telegramID int64) bool {
	return g.operators[telegramID]
}

// IssueToken выдает JWT для уже проверенной личности.
func (g *Gateway) IssueToken(userID string, telegramID int64) (string, error) {
	claims := Claims{
		UserID:     userID,
		TelegramID: telegramID,
		IsOperator: g.IsOperator(telegramID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.jwtSecret)
}

// VerifyToken разбирает и проверяет JWT.
func (g *Gateway) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", apperr.ErrUnauthorized)
	}
	return claims, nil
}
