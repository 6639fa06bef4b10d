package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
)

func TestCreditDebitWithLedger(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	balance, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, "initial")
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	assertDecimal(t, balance, "100")

	balance, err = svc.Debit(ctx, user.ID, "USDT", mustDecimal(t, "30"), models.TxKindWithdrawal, "payout")
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	assertDecimal(t, balance, "70")

	// Каждое движение средств оставило след в журнале, сумма записей
	// сходится с балансом.
	txs, err := svc.Transactions(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(txs))
	}

	sum := txs[0].Amount.Add(txs[1].Amount)
	assertDecimal(t, sum, "70")
}

func TestDebitInsufficientFunds(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "50"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	_, err := svc.Debit(ctx, user.ID, "USDT", mustDecimal(t, "80"), models.TxKindWithdrawal, "")
	if !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Отказ ничего не изменил: ни баланс, ни журнал.
	balance, err := svc.GetBalance(ctx, user.ID, "USDT")
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	assertDecimal(t, balance, "50")

	txs, _ := svc.Transactions(ctx, user.ID, "")
	if len(txs) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(txs))
	}
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	const workers = 5
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Debit(ctx, user.ID, "USDT", mustDecimal(t, "30"), models.TxKindWithdrawal, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, apperr.ErrInsufficientFunds) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// На балансе 100, списание по 30: пройти могут ровно три.
	if succeeded != 3 {
		t.Fatalf("expected 3 successful debits, got %d", succeeded)
	}

	balance, err := svc.GetBalance(ctx, user.ID, "USDT")
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	assertDecimal(t, balance, "10")
}

func TestGetBalanceUnknownCurrency(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)

	balance, err := svc.GetBalance(context.Background(), user.ID, "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance.String())
	}
}

func TestBlockedUserCannotMoveFunds(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if err := svc.SetUserStatus(ctx, user.ID, models.UserStatusBlocked); err != nil {
		t.Fatalf("failed to block user: %v", err)
	}

	if _, err := svc.Debit(ctx, user.ID, "USDT", mustDecimal(t, "10"), models.TxKindWithdrawal, ""); !errors.Is(err, apperr.ErrUserBlocked) {
		t.Fatalf("expected ErrUserBlocked, got %v", err)
	}
}
