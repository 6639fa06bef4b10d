package repository

import (
	"context"

	"github.com/trustex-app/trustex-core/internal/service"
	"github.com/trustex-app/trustex-core/utils"
	"gorm.io/gorm"
)

// Repository — реляционная реализация service.Repository поверх gorm.
type Repository struct {
	db     *gorm.DB
	logger *utils.Logger
}

func NewRepository(db *gorm.DB, logger *utils.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// WithTx выполняет fn в транзакции БД. Все мутации внутри fn применяются
// либо целиком, либо никак.
func (r *Repository) WithTx(ctx context.Context, fn func(tx service.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}
