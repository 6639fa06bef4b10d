package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
	"github.com/trustex-app/trustex-core/internal/service"
)

func TestExchangeRubToUsdt(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "RUB", mustDecimal(t, "10000"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	res, err := svc.ExchangeSide(ctx, user.ID, service.ExchangeSideRubToUsdt, mustDecimal(t, "10000"))
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	// 10000 * 0.012642 = 126.42
	assertDecimal(t, res.ToAmount, "126.42")
	assertDecimal(t, res.NewBalances["RUB"], "0")
	assertDecimal(t, res.NewBalances["USDT"], "126.42")

	// Ровно одна запись журнала на обмен, со стороной списания.
	txs, _ := svc.Transactions(ctx, user.ID, models.TxKindExchange)
	if len(txs) != 1 {
		t.Fatalf("expected 1 exchange ledger record, got %d", len(txs))
	}
	assertDecimal(t, txs[0].Amount, "-10000")
	if txs[0].Currency != "RUB" {
		t.Fatalf("ledger currency = %q, want RUB", txs[0].Currency)
	}
}

func TestExchangeUsdtToRub(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, user.ID, "USDT", mustDecimal(t, "100"), models.TxKindDeposit, ""); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	res, err := svc.ExchangeSide(ctx, user.ID, service.ExchangeSideUsdtToRub, mustDecimal(t, "100"))
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	// Обратная сторона делит на курс: 100 / 0.012642 = 7910.14.
	assertDecimal(t, res.ToAmount, "7910.14")
	assertDecimal(t, res.NewBalances["USDT"], "0")
	assertDecimal(t, res.NewBalances["RUB"], "7910.14")
}

func TestExchangeSamePairRejected(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)

	_, err := svc.Exchange(context.Background(), user.ID, "USDT", "USDT", mustDecimal(t, "10"), mustDecimal(t, "1"))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestExchangeInsufficientFundsIsAtomic(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)
	ctx := context.Background()

	_, err := svc.ExchangeSide(ctx, user.ID, service.ExchangeSideRubToUsdt, mustDecimal(t, "100"))
	if !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Зачисления на целевую валюту не произошло.
	balance, _ := svc.GetBalance(ctx, user.ID, "USDT")
	assertDecimal(t, balance, "0")
	txs, _ := svc.Transactions(ctx, user.ID, models.TxKindExchange)
	if len(txs) != 0 {
		t.Fatalf("expected no exchange ledger records, got %d", len(txs))
	}
}

func TestExchangeUnknownSide(t *testing.T) {
	svc := newTestService(t)
	user := newTestUser(t, svc, 42)

	_, err := svc.ExchangeSide(context.Background(), user.ID, "usdt_to_eur", mustDecimal(t, "10"))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
