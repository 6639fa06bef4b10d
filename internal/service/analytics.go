package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
)

// Analytics — производные показатели за период. Считаются заново по
// журналу сделок при каждом запросе, ничего не кэшируется: любое значение
// воспроизводимо повторным сканом за то же окно.
type Analytics struct {
	Period    string    `json:"period"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	TotalTrades int `json:"totalTrades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`

	WinRate      decimal.Decimal `json:"winRate"`
	TotalVolume  decimal.Decimal `json:"totalVolume"`
	AvgTradeSize decimal.Decimal `json:"avgTradeSize"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	TotalLoss    decimal.Decimal `json:"totalLoss"`
	NetPnL       decimal.Decimal `json:"netPnL"`
}

// TradeStats — разбивка по исходам за все время.
type TradeStats struct {
	TotalTrades int             `json:"totalTrades"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	WinRate     decimal.Decimal `json:"winRate"`
	LossRate    decimal.Decimal `json:"lossRate"`
	AvgProfit   decimal.Decimal `json:"avgProfit"`
	AvgLoss     decimal.Decimal `json:"avgLoss"`
}

var hundred = decimal.NewFromInt(100)

// periodStart возвращает начало окна: сегодняшняя полночь, начало недели,
// первое число месяца или 1 января.
func periodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "day":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case "week":
		start := now.AddDate(0, 0, -int(now.Weekday()))
		return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location()), nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: period must be day, week, month or year", apperr.ErrValidation)
	}
}

// AnalyticsByPeriod считает показатели по сделкам, открытым в окне периода.
func (s *Service) AnalyticsByPeriod(ctx context.Context, userID, period string) (*Analytics, error) {
	now := time.Now()
	start, err := periodStart(period, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	trades, err := s.repo.ListTradesSince(ctx, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	result := &Analytics{
		Period:    period,
		StartDate: start,
		EndDate:   now,
	}

	for _, trade := range trades {
		result.TotalTrades++
		result.TotalVolume = result.TotalVolume.Add(trade.Stake)

		if !trade.IsClosed() {
			continue
		}
		if trade.Result == models.TradeResultWin {
			result.Wins++
			result.TotalProfit = result.TotalProfit.Add(trade.Payout)
		} else {
			result.Losses++
			result.TotalLoss = result.TotalLoss.Add(trade.Stake)
		}
	}

	// Ноль сделок — определенное значение, не ошибка.
	if result.TotalTrades > 0 {
		result.WinRate = decimal.NewFromInt(int64(result.Wins)).
			Div(decimal.NewFromInt(int64(result.TotalTrades))).
			Mul(hundred).Round(2)
		result.AvgTradeSize = result.TotalVolume.
			Div(decimal.NewFromInt(int64(result.TotalTrades))).Round(2)
	}
	result.NetPnL = result.TotalProfit.Sub(result.TotalLoss)

	return result, nil
}

// TradeTypeStats — статистика исходов за все время.
func (s *Service) TradeTypeStats(ctx context.Context, userID string) (*TradeStats, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	trades, err := s.repo.ListTradesSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	stats := &TradeStats{}
	totalProfit := decimal.Zero
	totalLoss := decimal.Zero

	for _, trade := range trades {
		if !trade.IsClosed() {
			continue
		}
		stats.TotalTrades++
		if trade.Result == models.TradeResultWin {
			stats.Wins++
			totalProfit = totalProfit.Add(trade.Payout)
		} else {
			stats.Losses++
			totalLoss = totalLoss.Add(trade.Stake)
		}
	}

	if stats.TotalTrades > 0 {
		total := decimal.NewFromInt(int64(stats.TotalTrades))
		stats.WinRate = decimal.NewFromInt(int64(stats.Wins)).Div(total).Mul(hundred).Round(2)
		stats.LossRate = decimal.NewFromInt(int64(stats.Losses)).Div(total).Mul(hundred).Round(2)
	}
	if stats.Wins > 0 {
		stats.AvgProfit = totalProfit.Div(decimal.NewFromInt(int64(stats.Wins))).Round(2)
	}
	if stats.Losses > 0 {
		stats.AvgLoss = totalLoss.Div(decimal.NewFromInt(int64(stats.Losses))).Round(2)
	}

	return stats, nil
}
