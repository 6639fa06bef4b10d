package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
)

// Пополнение не трогает баланс до подтверждения и зачисляется ровно
// один раз.
func TestDepositLifecycle(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	req, err := svc.RequestDeposit(ctx, user.ID, "USDT", mustDecimal(t, "50"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Fatalf("status = %q, want pending", req.Status)
	}

	balance, _ := svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "0")

	approved, err := svc.ApproveDeposit(ctx, req.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != models.RequestStatusCompleted {
		t.Fatalf("status = %q, want completed", approved.Status)
	}

	balance, _ = svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "50")

	// Повторное подтверждение не зачисляет второй раз.
	if _, err := svc.ApproveDeposit(ctx, req.ID); !errors.Is(err, apperr.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	balance, _ = svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "50")

	txs, _ := svc.Transactions(ctx, user.ID, models.TxKindDeposit)
	if len(txs) != 1 {
		t.Fatalf("expected 1 deposit ledger record, got %d", len(txs))
	}
}

func TestDepositReject(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	req, err := svc.RequestDeposit(ctx, user.ID, "USDT", mustDecimal(t, "50"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	rejected, err := svc.RejectDeposit(ctx, req.ID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != models.RequestStatusRejected {
		t.Fatalf("status = %q, want rejected", rejected.Status)
	}

	// Повторное отклонение — безобидный no-op.
	if _, err := svc.RejectDeposit(ctx, req.ID); err != nil {
		t.Fatalf("repeat reject: %v", err)
	}

	// Подтвердить отклоненную заявку нельзя.
	if _, err := svc.ApproveDeposit(ctx, req.ID); !errors.Is(err, apperr.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}

	balance, _ := svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "0")
}

// Вывод замораживает средства в момент заявки, подтверждение баланс
// не меняет.
func TestWithdrawalLifecycle(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	req, newBalance, err := svc.RequestWithdrawal(ctx, user.ID, "USDT", mustDecimal(t, "30"), "TVqKxQ7Zp4hN3fR9yL2mW8sUdJ6eB1cA5o")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertDecimal(t, newBalance, "70")

	approved, err := svc.ApproveWithdrawal(ctx, req.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != models.RequestStatusCompleted {
		t.Fatalf("status = %q, want completed", approved.Status)
	}

	balance, _ := svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "70")

	if _, err := svc.ApproveWithdrawal(ctx, req.ID); !errors.Is(err, apperr.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

// Отклонение возвращает ровно списанную сумму и только один раз.
func TestWithdrawalReject(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	req, newBalance, err := svc.RequestWithdrawal(ctx, user.ID, "USDT", mustDecimal(t, "30"), "TVqKxQ7Zp4hN3fR9yL2mW8sUdJ6eB1cA5o")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertDecimal(t, newBalance, "70")

	if _, err := svc.RejectWithdrawal(ctx, req.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	balance, _ := svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "100")

	// Повторное отклонение не зачисляет возврат второй раз.
	if _, err := svc.RejectWithdrawal(ctx, req.ID); err != nil {
		t.Fatalf("repeat reject: %v", err)
	}
	balance, _ = svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "100")
}

func TestWithdrawalInsufficientFunds(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	_, _, err := svc.RequestWithdrawal(ctx, user.ID, "USDT", mustDecimal(t, "200"), "TVqKxQ7Zp4hN3fR9yL2mW8sUdJ6eB1cA5o")
	if !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Атомарность: заявка не создалась, баланс не изменился.
	pending, err := svc.PendingWithdrawals(ctx)
	if err != nil {
		t.Fatalf("failed to list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending withdrawals, got %d", len(pending))
	}
	balance, _ := svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "100")
}

func TestWithdrawalRequiresDestination(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)

	_, _, err := svc.RequestWithdrawal(context.Background(), user.ID, "USDT", mustDecimal(t, "10"), "")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPendingQueues(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.RequestDeposit(ctx, user.ID, "USDT", mustDecimal(t, "50")); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	req2, err := svc.RequestDeposit(ctx, user.ID, "USDT", mustDecimal(t, "25"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	pending, err := svc.PendingDeposits(ctx)
	if err != nil {
		t.Fatalf("failed to list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending deposits, got %d", len(pending))
	}

	if _, err := svc.ApproveDeposit(ctx, req2.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	pending, _ = svc.PendingDeposits(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending deposit after approve, got %d", len(pending))
	}
}
