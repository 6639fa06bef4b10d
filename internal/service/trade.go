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

// TradeResult — итог вызова CloseTrade.
type TradeResult struct {
	Trade *models.Trade
	// Settled=false — дедлайн еще не наступил, сделка остается активной.
	// Это нормальное состояние, не ошибка.
	Settled    bool
	Profit     decimal.Decimal
	NewBalance decimal.Decimal
}

// OpenTrade открывает сделку: ставка списывается сразу и удерживается
// платформой до истечения срока независимо от исхода.
func (s *Service) OpenTrade(ctx context.Context, userID, currency string, stake decimal.Decimal, direction, symbol string, durationSeconds int) (*models.Trade, error) {
	if direction != models.DirectionUp && direction != models.DirectionDown {
		return nil, fmt.Errorf("%w: invalid direction %q", apperr.ErrValidation, direction)
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", apperr.ErrValidation)
	}

	duration := time.Duration(durationSeconds) * time.Second
	if duration < s.minDuration || duration > s.maxDuration {
		return nil, fmt.Errorf("%w: duration must be between %s and %s",
			apperr.ErrValidation, s.minDuration, s.maxDuration)
	}

	stake = utils.RoundAmount(currency, stake)
	if !stake.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked() {
		return nil, apperr.ErrUserBlocked
	}

	now := time.Now()
	trade := &models.Trade{
		ID:        uuid.NewString(),
		UserID:    userID,
		Symbol:    symbol,
		Direction: direction,
		Currency:  currency,
		Stake:     stake,
		Status:    models.TradeStatusActive,
		OpenedAt:  now,
		ExpiresAt: now.Add(duration),
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		// Ставка удерживается в момент открытия. Единственная запись
		// журнала по сделке пишется при закрытии с чистым результатом.
		if _, err := tx.AddToBalance(ctx, userID, currency, stake.Neg()); err != nil {
			return err
		}
		return tx.CreateTrade(ctx, trade)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("📈 Сделка %s открыта: user=%s stake=%s истекает %s",
		trade.ID, userID, utils.FormatAmount(currency, stake), trade.ExpiresAt.Format(time.RFC3339))
	return trade, nil
}

// CloseTrade закрывает сделку по истечении срока. Идемпотентен: повторный
// вызов (гонка таймера и клиентского опроса) возвращает сохраненный
// результат без побочных эффектов. Исход определяется режимом торговли
// владельца, прочитанным в момент закрытия, а не открытия: оператор может
// сменить режим по уже открытой сделке, и это учтется.
func (s *Service) CloseTrade(ctx context.Context, tradeID string) (*TradeResult, error) {
	var (
		result     TradeResult
		settledNow bool
		telegramID int64
	)

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		trade, err := tx.GetTradeByID(ctx, tradeID)
		if err != nil {
			return fmt.Errorf("failed to get trade: %w", err)
		}
		if trade == nil {
			return apperr.ErrNotFound
		}

		if trade.IsClosed() {
			return s.storedResult(ctx, tx, trade, &result)
		}

		now := time.Now()
		if now.Before(trade.ExpiresAt) {
			result = TradeResult{Trade: trade, Settled: false}
			return nil
		}

		user, err := tx.GetUserByID(ctx, trade.UserID)
		if err != nil {
			return fmt.Errorf("failed to get trade owner: %w", err)
		}
		if user == nil {
			return apperr.ErrNotFound
		}
		telegramID = user.TelegramID

		// Режим читается здесь, в момент закрытия.
		outcome := models.TradeResultLoss
		payout := decimal.Zero
		if user.TradeMode == models.TradeModeWin {
			outcome = models.TradeResultWin
			payout = utils.RoundAmount(trade.Currency, trade.Stake.Mul(s.payoutRate))
		}

		applied, err := tx.MarkTradeClosed(ctx, trade.ID, outcome, payout, now)
		if err != nil {
			return fmt.Errorf("failed to close trade: %w", err)
		}
		if !applied {
			// Кто-то закрыл сделку параллельно — отдаем его результат.
			closed, err := tx.GetTradeByID(ctx, trade.ID)
			if err != nil {
				return err
			}
			return s.storedResult(ctx, tx, closed, &result)
		}

		trade.Status = models.TradeStatusClosed
		trade.Result = outcome
		trade.Payout = payout
		trade.ClosedAt = &now

		var profit decimal.Decimal
		var newBalance decimal.Decimal
		if outcome == models.TradeResultWin {
			profit = payout
			// Возврат ставки плюс выплата; в журнал идет чистая прибыль.
			newBalance, err = tx.AddToBalance(ctx, trade.UserID, trade.Currency, trade.Stake.Add(payout))
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("Торговля %s: Выигрыш +%s", trade.Symbol, utils.FormatAmount(trade.Currency, payout))
			if err := s.appendLedger(ctx, tx, trade.UserID, trade.Currency, payout, models.TxKindTrade, desc); err != nil {
				return err
			}
		} else {
			profit = trade.Stake.Neg()
			// Ставка уже списана при открытии, зачислять нечего.
			desc := fmt.Sprintf("Торговля %s: Проигрыш -%s", trade.Symbol, utils.FormatAmount(trade.Currency, trade.Stake))
			if err := s.appendLedger(ctx, tx, trade.UserID, trade.Currency, trade.Stake.Neg(), models.TxKindTrade, desc); err != nil {
				return err
			}
			wallet, err := tx.GetWallet(ctx, trade.UserID, trade.Currency)
			if err != nil {
				return err
			}
			if wallet != nil {
				newBalance = wallet.Balance
			}
		}

		result = TradeResult{Trade: trade, Settled: true, Profit: profit, NewBalance: newBalance}
		settledNow = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settledNow {
		s.logger.Infof("🏁 Сделка %s закрыта: %s, profit=%s",
			result.Trade.ID, result.Trade.Result, result.Profit.String())
		if result.Trade.Result == models.TradeResultWin {
			s.notifyUser(telegramID, fmt.Sprintf("🎉 Сделка выиграна! +%s",
				utils.FormatAmount(result.Trade.Currency, result.Profit)))
		} else {
			s.notifyUser(telegramID, fmt.Sprintf("📉 Сделка проиграна. -%s",
				utils.FormatAmount(result.Trade.Currency, result.Trade.Stake)))
		}
	}

	return &result, nil
}

// storedResult собирает результат по уже закрытой сделке без побочных эффектов.
func (s *Service) storedResult(ctx context.Context, tx Repository, trade *models.Trade, out *TradeResult) error {
	profit := trade.Stake.Neg()
	if trade.Result == models.TradeResultWin {
		profit = trade.Payout
	}

	wallet, err := tx.GetWallet(ctx, trade.UserID, trade.Currency)
	if err != nil {
		return err
	}
	balance := decimal.Zero
	if wallet != nil {
		balance = wallet.Balance
	}

	*out = TradeResult{Trade: trade, Settled: true, Profit: profit, NewBalance: balance}
	return nil
}

// Trades возвращает историю сделок пользователя, новые первыми.
func (s *Service) Trades(ctx context.Context, userID string, limit int) ([]models.Trade, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	return s.repo.ListTrades(ctx, userID, limit)
}
