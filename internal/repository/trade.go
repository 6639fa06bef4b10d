package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *Repository) GetTradeByID(ctx context.Context, id string) (*models.Trade, error) {
	var trade models.Trade
	err := r.db.WithContext(ctx).First(&trade, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trade by id %s: %w", id, err)
	}
	return &trade, nil
}

// MarkTradeClosed переводит active -> closed условным UPDATE. Нулевое
// число затронутых строк значит, что сделку уже закрыли параллельно —
// вызывающий перечитывает сохраненный результат.
func (r *Repository) MarkTradeClosed(ctx context.Context, id, result string, payout decimal.Decimal, closedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ? AND status = ?", id, models.TradeStatusActive).
		Updates(map[string]interface{}{
			"status":    models.TradeStatusClosed,
			"result":    result,
			"payout":    payout,
			"closed_at": closedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark trade closed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) ListTrades(ctx context.Context, userID string, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("opened_at DESC").
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

func (r *Repository) ListTradesSince(ctx context.Context, userID string, since time.Time) ([]models.Trade, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("opened_at >= ?", since)
	}

	var trades []models.Trade
	err := q.Order("opened_at ASC").Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trades since %s: %w", since, err)
	}
	return trades, nil
}

func (r *Repository) ListExpiredActiveTrades(ctx context.Context, now time.Time, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", models.TradeStatusActive, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired trades: %w", err)
	}
	return trades, nil
}
