package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Режим торговли пользователя. Определяет исход сделки в момент закрытия.
const (
	TradeModeWin  = "win"
	TradeModeLoss = "loss"
)

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

const (
	VerificationPending   = "pending"
	VerificationSubmitted = "submitted"
	VerificationVerified  = "verified"
	VerificationRejected  = "rejected"
)

const (
	TradeStatusActive = "active"
	TradeStatusClosed = "closed"
)

const (
	TradeResultWin  = "win"
	TradeResultLoss = "loss"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
	RequestStatusRejected  = "rejected"
)

const (
	TxKindDeposit    = "deposit"
	TxKindWithdrawal = "withdrawal"
	TxKindTrade      = "trade"
	TxKindExchange   = "exchange"
)

type User struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TelegramID int64  `gorm:"uniqueIndex" json:"telegram_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PhotoURL   string `json:"photo_url"`

	// Скрытый флаг, задается оператором. Пользователю не виден.
	TradeMode string `gorm:"default:loss" json:"-"`

	Verification string `gorm:"default:pending" json:"verification"`
	Status       string `gorm:"default:active" json:"status"`

	Wallets []Wallet `gorm:"foreignKey:UserID" json:"wallets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}

type Wallet struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	UserID   string          `gorm:"type:varchar(36);uniqueIndex:idx_user_currency" json:"user_id"`
	Currency string          `gorm:"type:varchar(10);uniqueIndex:idx_user_currency" json:"currency"`
	Balance  decimal.Decimal `gorm:"type:decimal(32,18);default:0" json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction — запись журнала операций. После записи не изменяется.
type Transaction struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string          `gorm:"type:varchar(36);index" json:"user_id"`
	Currency    string          `gorm:"type:varchar(10)" json:"currency"`
	Amount      decimal.Decimal `gorm:"type:decimal(32,18)" json:"amount"` // со знаком
	Kind        string          `gorm:"type:varchar(20);index" json:"kind"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Trade struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string          `gorm:"type:varchar(36);index" json:"user_id"`
	Symbol    string          `gorm:"type:varchar(20)" json:"symbol"`
	Direction string          `gorm:"type:varchar(10)" json:"direction"`
	Currency  string          `gorm:"type:varchar(10)" json:"currency"`
	Stake     decimal.Decimal `gorm:"type:decimal(32,18)" json:"stake"`
	Payout    decimal.Decimal `gorm:"type:decimal(32,18)" json:"payout"`
	Status    string          `gorm:"type:varchar(10);index;default:active" json:"status"`
	Result    string          `gorm:"type:varchar(10)" json:"result,omitempty"`

	OpenedAt  time.Time  `json:"opened_at"`
	ExpiresAt time.Time  `gorm:"index" json:"expires_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

func (t *Trade) IsClosed() bool {
	return t.Status == TradeStatusClosed
}

type DepositRequest struct {
	ID       string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID   string          `gorm:"type:varchar(36);index" json:"user_id"`
	Currency string          `gorm:"type:varchar(10)" json:"currency"`
	Amount   decimal.Decimal `gorm:"type:decimal(32,18)" json:"amount"`
	Status   string          `gorm:"type:varchar(10);index;default:pending" json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type WithdrawalRequest struct {
	ID       string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID   string          `gorm:"type:varchar(36);index" json:"user_id"`
	Currency string          `gorm:"type:varchar(10)" json:"currency"`
	Amount   decimal.Decimal `gorm:"type:decimal(32,18)" json:"amount"`
	// Адрес кошелька или номер карты, куда выводим средства.
	Destination string `json:"destination"`
	Status      string `gorm:"type:varchar(10);index;default:pending" json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
