package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/trustex-app/trustex-core/internal/models"
)

func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *Repository) ListTransactions(ctx context.Context, userID, kind string, since time.Time) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var transactions []models.Transaction
	err := q.Order("created_at DESC").Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
