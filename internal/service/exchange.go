package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
	"github.com/trustex-app/trustex-core/utils"
)

const (
	ExchangeSideRubToUsdt = "rub_to_usdt"
	ExchangeSideUsdtToRub = "usdt_to_rub"
)

type ExchangeResult struct {
	FromCurrency string
	ToCurrency   string
	FromAmount   decimal.Decimal
	ToAmount     decimal.Decimal
	Rate         decimal.Decimal
	NewBalances  map[string]decimal.Decimal
}

// Exchange конвертирует средства между валютами одной атомарной единицей:
// списание, зачисление и одна запись журнала. Курс приходит извне —
// сервис цен не запрашивает.
func (s *Service) Exchange(ctx context.Context, userID, fromCurrency, toCurrency string, amount, rate decimal.Decimal) (*ExchangeResult, error) {
	if fromCurrency == "" || toCurrency == "" || fromCurrency == toCurrency {
		return nil, fmt.Errorf("%w: invalid currency pair %s/%s", apperr.ErrValidation, fromCurrency, toCurrency)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", apperr.ErrValidation)
	}

	amount = utils.RoundAmount(fromCurrency, amount)
	if !amount.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}

	if err := s.checkNotBlocked(ctx, userID); err != nil {
		return nil, err
	}

	toAmount := utils.RoundAmount(toCurrency, amount.Mul(rate))
	if !toAmount.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}

	result := &ExchangeResult{
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		FromAmount:   amount,
		ToAmount:     toAmount,
		Rate:         rate,
		NewBalances:  make(map[string]decimal.Decimal, 2),
	}

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		fromBalance, err := tx.AddToBalance(ctx, userID, fromCurrency, amount.Neg())
		if err != nil {
			return err
		}
		toBalance, err := tx.AddToBalance(ctx, userID, toCurrency, toAmount)
		if err != nil {
			return err
		}

		desc := fmt.Sprintf("Обмен %s → %s",
			utils.FormatAmount(fromCurrency, amount), utils.FormatAmount(toCurrency, toAmount))
		if err := s.appendLedger(ctx, tx, userID, fromCurrency, amount.Neg(), models.TxKindExchange, desc); err != nil {
			return err
		}

		result.NewBalances[fromCurrency] = fromBalance
		result.NewBalances[toCurrency] = toBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("💱 Обмен выполнен: user=%s %s → %s", userID,
		utils.FormatAmount(fromCurrency, amount), utils.FormatAmount(toCurrency, toAmount))
	return result, nil
}

// ExchangeSide — обмен RUB/USDT по фиксированному курсу из конфигурации.
func (s *Service) ExchangeSide(ctx context.Context, userID, side string, amount decimal.Decimal) (*ExchangeResult, error) {
	switch side {
	case ExchangeSideRubToUsdt:
		return s.Exchange(ctx, userID, "RUB", "USDT", amount, s.rubUsdtRate)
	case ExchangeSideUsdtToRub:
		return s.Exchange(ctx, userID, "USDT", "RUB", amount, decimal.NewFromInt(1).Div(s.rubUsdtRate))
	default:
		return nil, fmt.Errorf("%w: invalid side %q", apperr.ErrValidation, side)
	}
}

// RubUsdtRate — текущий фиксированный курс для фронтенда.
func (s *Service) RubUsdtRate() decimal.Decimal {
	return s.rubUsdtRate
}
