package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trustex-app/trustex-core/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateDepositRequest(ctx context.Context, req *models.DepositRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) GetDepositRequestByID(ctx context.Context, id string) (*models.DepositRequest, error) {
	var req models.DepositRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deposit request %s: %w", id, err)
	}
	return &req, nil
}

// ResolveDepositRequest — условный перевод pending -> status. Защита от
// двойного подтверждения: повторный вызов не затронет ни одной строки.
func (r *Repository) ResolveDepositRequest(ctx context.Context, id, status string, resolvedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DepositRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to resolve deposit request: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) ListPendingDepositRequests(ctx context.Context) ([]models.DepositRequest, error) {
	var requests []models.DepositRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deposits: %w", err)
	}
	return requests, nil
}

func (r *Repository) CreateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) GetWithdrawalRequestByID(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get withdrawal request %s: %w", id, err)
	}
	return &req, nil
}

func (r *Repository) ResolveWithdrawalRequest(ctx context.Context, id, status string, resolvedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to resolve withdrawal request: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) ListPendingWithdrawalRequests(ctx context.Context) ([]models.WithdrawalRequest, error) {
	var requests []models.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	return requests, nil
}
