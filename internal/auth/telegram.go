package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trustex-app/trustex-core/internal/apperr"
)

// Подпись initData живет не дольше пяти минут.
const initDataMaxAge = 5 * time.Minute

// TelegramUser — профиль из поля user проверенного initData.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
	IsPremium bool   `json:"is_premium"`
}

// VerifyInitData проверяет подпись initData мини-приложения Telegram:
// HMAC-SHA256 по отсортированным парам key=value, ключ — HMAC от токена
// бота с константой "WebAppData".
func VerifyInitData(initData, botToken string) (*TelegramUser, error) {
	if initData == "" || botToken == "" {
		return nil, fmt.Errorf("%w: initData and bot token are required", apperr.ErrValidation)
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed initData", apperr.ErrValidation)
	}

	signature := values.Get("hash")
	if signature == "" {
		return nil, fmt.Errorf("%w: no signature found", apperr.ErrUnauthorized)
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("%w: invalid initData signature", apperr.ErrUnauthorized)
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed auth_date", apperr.ErrValidation)
		}
		if time.Since(time.Unix(ts, 0)) > initDataMaxAge {
			return nil, fmt.Errorf("%w: auth data too old", apperr.ErrUnauthorized)
		}
	}

	userData := values.Get("user")
	if userData == "" {
		return nil, fmt.Errorf("%w: user data missing", apperr.ErrValidation)
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		return nil, fmt.Errorf("%w: invalid user data", apperr.ErrValidation)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: telegram id missing", apperr.ErrValidation)
	}

	return &user, nil
}
