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

// RequestDeposit создает заявку на пополнение. Баланс не меняется до
// подтверждения оператором.
func (s *Service) RequestDeposit(ctx context.Context, userID, currency string, amount decimal.Decimal) (*models.DepositRequest, error) {
	amount = utils.RoundAmount(currency, amount)
	if !amount.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked() {
		return nil, apperr.ErrUserBlocked
	}

	req := &models.DepositRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Currency:  currency,
		Amount:    amount,
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateDepositRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create deposit request: %w", err)
	}

	s.notifyAdmins(fmt.Sprintf("💰 Новая заявка на пополнение: %s от @%s",
		utils.FormatAmount(currency, amount), user.Username))
	return req, nil
}

// ApproveDeposit подтверждает пополнение: зачисление и смена статуса —
// одна атомарная единица. Повторное подтверждение возвращает
// ErrAlreadyResolved и не зачисляет второй раз.
func (s *Service) ApproveDeposit(ctx context.Context, requestID string) (*models.DepositRequest, error) {
	var (
		req        *models.DepositRequest
		telegramID int64
	)

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		req, err = tx.GetDepositRequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get deposit request: %w", err)
		}
		if req == nil {
			return apperr.ErrNotFound
		}

		now := time.Now()
		applied, err := tx.ResolveDepositRequest(ctx, req.ID, models.RequestStatusCompleted, now)
		if err != nil {
			return fmt.Errorf("failed to resolve deposit request: %w", err)
		}
		if !applied {
			return apperr.ErrAlreadyResolved
		}
		req.Status = models.RequestStatusCompleted
		req.ResolvedAt = &now

		user, err := tx.GetUserByID(ctx, req.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.ErrNotFound
		}
		telegramID = user.TelegramID

		desc := fmt.Sprintf("Пополнение %s", utils.FormatAmount(req.Currency, req.Amount))
		_, err = s.credit(ctx, tx, req.UserID, req.Currency, req.Amount, models.TxKindDeposit, desc)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyUser(telegramID, fmt.Sprintf("✅ Пополнение %s зачислено",
		utils.FormatAmount(req.Currency, req.Amount)))
	return req, nil
}

// RejectDeposit отклоняет заявку на пополнение. Баланс не трогался —
// возвращать нечего. Повторное отклонение — no-op.
func (s *Service) RejectDeposit(ctx context.Context, requestID string) (*models.DepositRequest, error) {
	var req *models.DepositRequest

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		req, err = tx.GetDepositRequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get deposit request: %w", err)
		}
		if req == nil {
			return apperr.ErrNotFound
		}
		if req.Status == models.RequestStatusRejected {
			return nil
		}

		now := time.Now()
		applied, err := tx.ResolveDepositRequest(ctx, req.ID, models.RequestStatusRejected, now)
		if err != nil {
			return err
		}
		if !applied {
			return apperr.ErrAlreadyResolved
		}
		req.Status = models.RequestStatusRejected
		req.ResolvedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// RequestWithdrawal создает заявку на вывод. Средства списываются сразу
// (замораживаются до решения оператора) — этим вывод отличается от
// пополнения.
func (s *Service) RequestWithdrawal(ctx context.Context, userID, currency string, amount decimal.Decimal, destination string) (*models.WithdrawalRequest, decimal.Decimal, error) {
	amount = utils.RoundAmount(currency, amount)
	if !amount.IsPositive() {
		return nil, decimal.Zero, apperr.ErrInvalidAmount
	}
	if destination == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: destination is required", apperr.ErrValidation)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if user.IsBlocked() {
		return nil, decimal.Zero, apperr.ErrUserBlocked
	}

	req := &models.WithdrawalRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		Currency:    currency,
		Amount:      amount,
		Destination: destination,
		Status:      models.RequestStatusPending,
		CreatedAt:   time.Now(),
	}

	var newBalance decimal.Decimal
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		desc := fmt.Sprintf("Заявка на вывод %s", utils.FormatAmount(currency, amount))
		var err error
		newBalance, err = s.debit(ctx, tx, userID, currency, amount, models.TxKindWithdrawal, desc)
		if err != nil {
			return err
		}
		return tx.CreateWithdrawalRequest(ctx, req)
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	s.notifyAdmins(fmt.Sprintf("📤 Новая заявка на вывод: %s от @%s на %s",
		utils.FormatAmount(currency, amount), user.Username, destination))
	return req, newBalance, nil
}

// ApproveWithdrawal подтверждает вывод. Средства уже списаны при создании
// заявки, баланс не меняется. Терминальный статус повторно не переводится.
func (s *Service) ApproveWithdrawal(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	var (
		req        *models.WithdrawalRequest
		telegramID int64
	)

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		req, err = tx.GetWithdrawalRequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get withdrawal request: %w", err)
		}
		if req == nil {
			return apperr.ErrNotFound
		}

		now := time.Now()
		applied, err := tx.ResolveWithdrawalRequest(ctx, req.ID, models.RequestStatusCompleted, now)
		if err != nil {
			return err
		}
		if !applied {
			return apperr.ErrAlreadyResolved
		}
		req.Status = models.RequestStatusCompleted
		req.ResolvedAt = &now

		user, err := tx.GetUserByID(ctx, req.UserID)
		if err != nil {
			return err
		}
		if user != nil {
			telegramID = user.TelegramID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyUser(telegramID, fmt.Sprintf("✅ Вывод %s подтвержден. Средства отправлены.",
		utils.FormatAmount(req.Currency, req.Amount)))
	return req, nil
}

// RejectWithdrawal отклоняет вывод и возвращает ровно списанную сумму.
// Повторное отклонение — no-op без повторного зачисления; условный перевод
// статуса pending -> rejected гарантирует однократность возврата.
func (s *Service) RejectWithdrawal(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	var (
		req        *models.WithdrawalRequest
		telegramID int64
		refunded   bool
	)

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		var err error
		req, err = tx.GetWithdrawalRequestByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get withdrawal request: %w", err)
		}
		if req == nil {
			return apperr.ErrNotFound
		}
		if req.Status == models.RequestStatusRejected {
			return nil
		}

		now := time.Now()
		applied, err := tx.ResolveWithdrawalRequest(ctx, req.ID, models.RequestStatusRejected, now)
		if err != nil {
			return err
		}
		if !applied {
			return apperr.ErrAlreadyResolved
		}
		req.Status = models.RequestStatusRejected
		req.ResolvedAt = &now

		desc := fmt.Sprintf("Возврат по отклоненному выводу %s", utils.FormatAmount(req.Currency, req.Amount))
		if _, err := s.credit(ctx, tx, req.UserID, req.Currency, req.Amount, models.TxKindWithdrawal, desc); err != nil {
			return err
		}
		refunded = true

		user, err := tx.GetUserByID(ctx, req.UserID)
		if err != nil {
			return err
		}
		if user != nil {
			telegramID = user.TelegramID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if refunded {
		s.notifyUser(telegramID, fmt.Sprintf("❌ Заявка на вывод отклонена. %s возвращены на баланс.",
			utils.FormatAmount(req.Currency, req.Amount)))
	}
	return req, nil
}

// PendingDeposits — очередь заявок на пополнение для оператора.
func (s *Service) PendingDeposits(ctx context.Context) ([]models.DepositRequest, error) {
	return s.repo.ListPendingDepositRequests(ctx)
}

// PendingWithdrawals — очередь заявок на вывод для оператора.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]models.WithdrawalRequest, error) {
	return s.repo.ListPendingWithdrawalRequests(ctx)
}
