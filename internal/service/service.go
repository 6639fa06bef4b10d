package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/config"
	"github.com/trustex-app/trustex-core/internal/models"
	"github.com/trustex-app/trustex-core/utils"
)

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *utils.Logger

	payoutRate  decimal.Decimal
	minDuration time.Duration
	maxDuration time.Duration
	rubUsdtRate decimal.Decimal
}

// Repository — абстракция над хранилищем. Реализуется реляционным
// бэкендом (internal/repository) и файловым (internal/filestore).
// WithTx объединяет изменение баланса, запись в журнал и смену статуса
// в одну атомарную единицу: либо применяется всё, либо ничего.
type Repository interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error

	GetWallet(ctx context.Context, userID, currency string) (*models.Wallet, error)
	ListWallets(ctx context.Context, userID string) ([]models.Wallet, error)
	// AddToBalance атомарно применяет дельту к балансу (user, currency).
	// Отрицательная дельта защищена условием balance + delta >= 0;
	// при нарушении возвращает apperr.ErrInsufficientFunds, баланс не меняется.
	// Положительная дельта создает кошелек, если его еще нет.
	// Возвращает новый баланс.
	AddToBalance(ctx context.Context, userID, currency string, delta decimal.Decimal) (decimal.Decimal, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID, kind string, since time.Time) ([]models.Transaction, error)

	CreateTrade(ctx context.Context, trade *models.Trade) error
	GetTradeByID(ctx context.Context, id string) (*models.Trade, error)
	// MarkTradeClosed переводит сделку active -> closed. Возвращает false,
	// если сделка уже закрыта (перевод не применился).
	MarkTradeClosed(ctx context.Context, id, result string, payout decimal.Decimal, closedAt time.Time) (bool, error)
	ListTrades(ctx context.Context, userID string, limit int) ([]models.Trade, error)
	ListTradesSince(ctx context.Context, userID string, since time.Time) ([]models.Trade, error)
	ListExpiredActiveTrades(ctx context.Context, now time.Time, limit int) ([]models.Trade, error)

	CreateDepositRequest(ctx context.Context, req *models.DepositRequest) error
	GetDepositRequestByID(ctx context.Context, id string) (*models.DepositRequest, error)
	// ResolveDepositRequest переводит заявку pending -> status. Возвращает
	// false, если заявка уже была в терминальном статусе.
	ResolveDepositRequest(ctx context.Context, id, status string, resolvedAt time.Time) (bool, error)
	ListPendingDepositRequests(ctx context.Context) ([]models.DepositRequest, error)

	CreateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error
	GetWithdrawalRequestByID(ctx context.Context, id string) (*models.WithdrawalRequest, error)
	ResolveWithdrawalRequest(ctx context.Context, id, status string, resolvedAt time.Time) (bool, error)
	ListPendingWithdrawalRequests(ctx context.Context) ([]models.WithdrawalRequest, error)
}

// Notifier отправляет уведомления в Telegram. Реализация — internal/notify.
type Notifier interface {
	NotifyUser(telegramID int64, text string)
	NotifyAdmins(text string)
}

func NewService(repo Repository, notifier Notifier, cfg *config.Config, logger *utils.Logger) *Service {
	return &Service{
		repo:        repo,
		notifier:    notifier,
		logger:      logger,
		payoutRate:  decimal.NewFromFloat(cfg.PayoutRate),
		minDuration: time.Duration(cfg.MinTradeDuration) * time.Second,
		maxDuration: time.Duration(cfg.MaxTradeDuration) * time.Second,
		rubUsdtRate: decimal.NewFromFloat(cfg.RubUsdtRate),
	}
}

func (s *Service) notifyUser(telegramID int64, text string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyUser(telegramID, text)
}

func (s *Service) notifyAdmins(text string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyAdmins(text)
}
