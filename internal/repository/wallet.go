package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetWallet(ctx context.Context, userID, currency string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		First(&wallet, "user_id = ? AND currency = ?", userID, currency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *Repository) ListWallets(ctx context.Context, userID string) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// AddToBalance применяет дельту одним условным UPDATE: проверка
// balance >= amount и списание атомарны на уровне строки, поэтому два
// конкурирующих списания не пройдут по устаревшему чтению.
func (r *Repository) AddToBalance(ctx context.Context, userID, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	if delta.IsNegative() {
		res := r.db.WithContext(ctx).
			Model(&models.Wallet{}).
			Where("user_id = ? AND currency = ? AND balance >= ?", userID, currency, delta.Neg()).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", delta),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return decimal.Zero, fmt.Errorf("failed to update balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return decimal.Zero, apperr.ErrInsufficientFunds
		}
	} else {
		// Первое пополнение валюты создает кошелек; гонку двух insert
		// разрешает уникальный индекс (user_id, currency) + upsert.
		wallet := models.Wallet{
			UserID:    userID,
			Currency:  currency,
			Balance:   delta,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "currency"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance":    gorm.Expr("wallets.balance + EXCLUDED.balance"),
				"updated_at": time.Now(),
			}),
		}).Create(&wallet).Error
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to credit balance: %w", err)
		}
	}

	wallet, err := r.GetWallet(ctx, userID, currency)
	if err != nil {
		return decimal.Zero, err
	}
	if wallet == nil {
		return decimal.Zero, apperr.ErrInsufficientFunds
	}
	return wallet.Balance, nil
}
