package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/trustex-app/trustex-core/internal/apperr"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData подписывает пары тем же алгоритмом, что и Telegram.
func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func validInitData(t *testing.T, authDate time.Time) string {
	t.Helper()

	values := url.Values{}
	values.Set("user", `{"id":42,"username":"tester","first_name":"Test"}`)
	values.Set("auth_date", fmt.Sprintf("%d", authDate.Unix()))
	values.Set("query_id", "AAE42")
	values.Set("hash", signInitData(values, testBotToken))
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	user, err := VerifyInitData(validInitData(t, time.Now()), testBotToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 42 {
		t.Errorf("id = %d, want 42", user.ID)
	}
	if user.Username != "tester" {
		t.Errorf("username = %q, want tester", user.Username)
	}
}

func TestVerifyInitDataTampered(t *testing.T) {
	values, _ := url.ParseQuery(validInitData(t, time.Now()))
	values.Set("user", `{"id":999,"username":"intruder"}`)

	if _, err := VerifyInitData(values.Encode(), testBotToken); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	if _, err := VerifyInitData(validInitData(t, time.Now()), "another:token"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyInitDataStale(t *testing.T) {
	stale := validInitData(t, time.Now().Add(-10*time.Minute))
	if _, err := VerifyInitData(stale, testBotToken); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for stale auth_date, got %v", err)
	}
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42}`)

	if _, err := VerifyInitData(values.Encode(), testBotToken); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
