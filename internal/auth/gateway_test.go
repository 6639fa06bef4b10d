package auth

import (
	"errors"
	"testing"

	"github.com/trustex-app/trustex-core/internal/apperr"
)

func TestTokenRoundTrip(t *testing.T) {
	gw := NewGateway(testBotToken, "jwt-secret", []int64{100})

	token, err := gw.IssueToken("user-1", 42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := gw.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("userID = %q, want user-1", claims.UserID)
	}
	if claims.TelegramID != 42 {
		t.Errorf("telegramID = %d, want 42", claims.TelegramID)
	}
	if claims.IsOperator {
		t.Error("expected non-operator claims")
	}
}

func TestOperatorClaim(t *testing.T) {
	gw := NewGateway(testBotToken, "jwt-secret", []int64{42})

	token, err := gw.IssueToken("op-1", 42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := gw.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !claims.IsOperator {
		t.Error("expected operator claims for admin telegram id")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	gw := NewGateway(testBotToken, "jwt-secret", nil)
	other := NewGateway(testBotToken, "other-secret", nil)

	token, err := gw.IssueToken("user-1", 42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := other.VerifyToken(token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	gw := NewGateway(testBotToken, "jwt-secret", nil)

	if _, err := gw.VerifyToken("not.a.token"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
