package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
	"github.com/trustex-app/trustex-core/utils"
)

// GetBalance возвращает баланс пользователя в валюте.
// Для еще не встречавшейся валюты возвращает ноль, не ошибку.
func (s *Service) GetBalance(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
	wallet, err := s.repo.GetWallet(ctx, userID, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return decimal.Zero, nil
	}
	return wallet.Balance, nil
}

// Balances возвращает все кошельки пользователя.
func (s *Service) Balances(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	wallets, err := s.repo.ListWallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	balances := make(map[string]decimal.Decimal, len(wallets))
	for _, w := range wallets {
		balances[w.Currency] = w.Balance
	}
	return balances, nil
}

// Credit зачисляет средства и пишет запись журнала одной атомарной единицей.
func (s *Service) Credit(ctx context.Context, userID, currency string, amount decimal.Decimal, kind, description string) (decimal.Decimal, error) {
	if err := s.checkNotBlocked(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		newBalance, err = s.credit(ctx, tx, userID, currency, amount, kind, description)
		return err
	})
	return newBalance, err
}

// Debit списывает средства и пишет запись журнала одной атомарной единицей.
func (s *Service) Debit(ctx context.Context, userID, currency string, amount decimal.Decimal, kind, description string) (decimal.Decimal, error) {
	if err := s.checkNotBlocked(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		newBalance, err = s.debit(ctx, tx, userID, currency, amount, kind, description)
		return err
	})
	return newBalance, err
}

// credit — зачисление внутри уже открытой транзакции хранилища.
// Сумма округляется до точности валюты в момент записи.
func (s *Service) credit(ctx context.Context, tx Repository, userID, currency string, amount decimal.Decimal, kind, description string) (decimal.Decimal, error) {
	amount = utils.RoundAmount(currency, amount)
	if !amount.IsPositive() {
		return decimal.Zero, apperr.ErrInvalidAmount
	}

	newBalance, err := tx.AddToBalance(ctx, userID, currency, amount)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.appendLedger(ctx, tx, userID, currency, amount, kind, description); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// debit — списание внутри уже открытой транзакции хранилища. Проверка
// баланса и само списание атомарны: два конкурирующих списания не могут
// вместе увести баланс в минус.
func (s *Service) debit(ctx context.Context, tx Repository, userID, currency string, amount decimal.Decimal, kind, description string) (decimal.Decimal, error) {
	amount = utils.RoundAmount(currency, amount)
	if !amount.IsPositive() {
		return decimal.Zero, apperr.ErrInvalidAmount
	}

	newBalance, err := tx.AddToBalance(ctx, userID, currency, amount.Neg())
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.appendLedger(ctx, tx, userID, currency, amount.Neg(), kind, description); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

func (s *Service) appendLedger(ctx context.Context, tx Repository, userID, currency string, amount decimal.Decimal, kind, description string) error {
	record := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Currency:    currency,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := tx.CreateTransaction(ctx, record); err != nil {
		return fmt.Errorf("failed to append transaction log: %w", err)
	}
	return nil
}

func (s *Service) checkNotBlocked(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsBlocked() {
		return apperr.ErrUserBlocked
	}
	return nil
}

// Transactions возвращает историю операций пользователя.
// kind пустой — все типы.
func (s *Service) Transactions(ctx context.Context, userID, kind string) ([]models.Transaction, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, userID, kind, time.Time{})
}
