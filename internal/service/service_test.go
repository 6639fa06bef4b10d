package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/config"
	"github.com/trustex-app/trustex-core/internal/filestore"
	"github.com/trustex-app/trustex-core/internal/models"
	"github.com/trustex-app/trustex-core/internal/service"
	"github.com/trustex-app/trustex-core/utils"
)

// Тесты гоняют сервис поверх файлового бэкенда во временной директории.
// MinTradeDuration=0 позволяет открывать мгновенно истекающие сделки.
func newTestService(t *testing.T) *service.Service {
	t.Helper()

	logger := utils.InitLogger("error")
	store, err := filestore.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		PayoutRate:       0.015,
		MinTradeDuration: 0,
		MaxTradeDuration: 600,
		RubUsdtRate:      0.012642,
	}
	return service.NewService(store, nil, cfg, logger)
}

func newTestUser(t *testing.T, svc *service.Service, telegramID int64) *models.User {
	t.Helper()

	user, err := svc.GetOrCreateUser(context.Background(), service.TelegramProfile{
		TelegramID: telegramID,
		Username:   "tester",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(mustDecimal(t, want)) {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestGetOrCreateUserIdempotent(t *testing.T) {
	svc := newTestService(t)

	first := newTestUser(t, svc, 42)
	second, err := svc.GetOrCreateUser(context.Background(), service.TelegramProfile{TelegramID: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same user, got %s and %s", first.ID, second.ID)
	}
}

func TestNewUserDefaults(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)

	if user.TradeMode != models.TradeModeLoss {
		t.Errorf("trade mode = %q, want %q", user.TradeMode, models.TradeModeLoss)
	}
	if user.Status != models.UserStatusActive {
		t.Errorf("status = %q, want %q", user.Status, models.UserStatusActive)
	}
	if user.Verification != models.VerificationPending {
		t.Errorf("verification = %q, want %q", user.Verification, models.VerificationPending)
	}
}
