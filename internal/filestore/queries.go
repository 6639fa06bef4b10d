package filestore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
)

// ===== Пользователи =====

func (s *Store) GetUserByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].TelegramID == telegramID {
			u := s.doc.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].ID == id {
			u := s.doc.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].TelegramID == user.TelegramID {
			return apperr.ErrAlreadyResolved
		}
	}
	s.doc.Users = append(s.doc.Users, *user)
	return s.commit()
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Users {
		if s.doc.Users[i].ID == user.ID {
			s.doc.Users[i] = *user
			return s.commit()
		}
	}
	return apperr.ErrNotFound
}

// ===== Кошельки =====

func (s *Store) GetWallet(_ context.Context, userID, currency string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w := s.findWallet(userID, currency); w != nil {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (s *Store) ListWallets(_ context.Context, userID string) ([]models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wallets []models.Wallet
	for i := range s.doc.Wallets {
		if s.doc.Wallets[i].UserID == userID {
			wallets = append(wallets, s.doc.Wallets[i])
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Currency < wallets[j].Currency })
	return wallets, nil
}

// AddToBalance: проверка и мутация идут под одним мьютекcом, что
// эквивалентно построчной атомарности реляционного бэкенда.
func (s *Store) AddToBalance(_ context.Context, userID, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet := s.findWallet(userID, currency)
	if wallet == nil {
		if delta.IsNegative() {
			return decimal.Zero, apperr.ErrInsufficientFunds
		}
		now := time.Now()
		s.doc.Wallets = append(s.doc.Wallets, models.Wallet{
			ID:        uint(len(s.doc.Wallets) + 1),
			UserID:    userID,
			Currency:  currency,
			Balance:   delta,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err := s.commit(); err != nil {
			return decimal.Zero, err
		}
		return delta, nil
	}

	newBalance := wallet.Balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, apperr.ErrInsufficientFunds
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = time.Now()
	if err := s.commit(); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

func (s *Store) findWallet(userID, currency string) *models.Wallet {
	for i := range s.doc.Wallets {
		if s.doc.Wallets[i].UserID == userID && s.doc.Wallets[i].Currency == currency {
			return &s.doc.Wallets[i]
		}
	}
	return nil
}

// ===== Журнал =====

func (s *Store) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Transactions = append(s.doc.Transactions, *tx)
	return s.commit()
}

func (s *Store) ListTransactions(_ context.Context, userID, kind string, since time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Transaction
	for i := range s.doc.Transactions {
		t := s.doc.Transactions[i]
		if t.UserID != userID {
			continue
		}
		if kind != "" && t.Kind != kind {
			continue
		}
		if !since.IsZero() && t.CreatedAt.Before(since) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ===== Сделки =====

func (s *Store) CreateTrade(_ context.Context, trade *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Trades = append(s.doc.Trades, *trade)
	return s.commit()
}

func (s *Store) GetTradeByID(_ context.Context, id string) (*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Trades {
		if s.doc.Trades[i].ID == id {
			t := s.doc.Trades[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) MarkTradeClosed(_ context.Context, id, result string, payout decimal.Decimal, closedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Trades {
		trade := &s.doc.Trades[i]
		if trade.ID != id {
			continue
		}
		if trade.Status != models.TradeStatusActive {
			return false, nil
		}
		trade.Status = models.TradeStatusClosed
		trade.Result = result
		trade.Payout = payout
		closed := closedAt
		trade.ClosedAt = &closed
		if err := s.commit(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *Store) ListTrades(_ context.Context, userID string, limit int) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var trades []models.Trade
	for i := range s.doc.Trades {
		if s.doc.Trades[i].UserID == userID {
			trades = append(trades, s.doc.Trades[i])
		}
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].OpenedAt.After(trades[j].OpenedAt) })
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

func (s *Store) ListTradesSince(_ context.Context, userID string, since time.Time) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var trades []models.Trade
	for i := range s.doc.Trades {
		t := s.doc.Trades[i]
		if t.UserID != userID {
			continue
		}
		if !since.IsZero() && t.OpenedAt.Before(since) {
			continue
		}
		trades = append(trades, t)
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].OpenedAt.Before(trades[j].OpenedAt) })
	return trades, nil
}

func (s *Store) ListExpiredActiveTrades(_ context.Context, now time.Time, limit int) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var trades []models.Trade
	for i := range s.doc.Trades {
		t := s.doc.Trades[i]
		if t.Status == models.TradeStatusActive && !t.ExpiresAt.After(now) {
			trades = append(trades, t)
		}
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ExpiresAt.Before(trades[j].ExpiresAt) })
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

// ===== Заявки =====

func (s *Store) CreateDepositRequest(_ context.Context, req *models.DepositRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Deposits = append(s.doc.Deposits, *req)
	return s.commit()
}

func (s *Store) GetDepositRequestByID(_ context.Context, id string) (*models.DepositRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Deposits {
		if s.doc.Deposits[i].ID == id {
			r := s.doc.Deposits[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) ResolveDepositRequest(_ context.Context, id, status string, resolvedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Deposits {
		req := &s.doc.Deposits[i]
		if req.ID != id {
			continue
		}
		if req.Status != models.RequestStatusPending {
			return false, nil
		}
		req.Status = status
		resolved := resolvedAt
		req.ResolvedAt = &resolved
		if err := s.commit(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *Store) ListPendingDepositRequests(_ context.Context) ([]models.DepositRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var requests []models.DepositRequest
	for i := range s.doc.Deposits {
		if s.doc.Deposits[i].Status == models.RequestStatusPending {
			requests = append(requests, s.doc.Deposits[i])
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	return requests, nil
}

func (s *Store) CreateWithdrawalRequest(_ context.Context, req *models.WithdrawalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Withdrawals = append(s.doc.Withdrawals, *req)
	return s.commit()
}

func (s *Store) GetWithdrawalRequestByID(_ context.Context, id string) (*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Withdrawals {
		if s.doc.Withdrawals[i].ID == id {
			r := s.doc.Withdrawals[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) ResolveWithdrawalRequest(_ context.Context, id, status string, resolvedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Withdrawals {
		req := &s.doc.Withdrawals[i]
		if req.ID != id {
			continue
		}
		if req.Status != models.RequestStatusPending {
			return false, nil
		}
		req.Status = status
		resolved := resolvedAt
		req.ResolvedAt = &resolved
		if err := s.commit(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *Store) ListPendingWithdrawalRequests(_ context.Context) ([]models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var requests []models.WithdrawalRequest
	for i := range s.doc.Withdrawals {
		if s.doc.Withdrawals[i].Status == models.RequestStatusPending {
			requests = append(requests, s.doc.Withdrawals[i])
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	return requests, nil
}
