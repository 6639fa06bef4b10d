package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trustex-app/trustex-core/internal/apperr"
	"github.com/trustex-app/trustex-core/internal/models"
)

// TelegramProfile — данные пользователя из проверенного initData.
type TelegramProfile struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	PhotoURL   string
}

// GetOrCreateUser находит пользователя по telegram id или создает нового.
// Вызывается после успешной проверки подписи initData.
func (s *Service) GetOrCreateUser(ctx context.Context, profile TelegramProfile) (*models.User, error) {
	if profile.TelegramID == 0 {
		return nil, fmt.Errorf("%w: telegram id is required", apperr.ErrValidation)
	}

	user, err := s.repo.GetUserByTelegramID(ctx, profile.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user != nil {
		if user.IsBlocked() {
			return nil, apperr.ErrUserBlocked
		}
		return user, nil
	}

	user = &models.User{
		ID:           uuid.NewString(),
		TelegramID:   profile.TelegramID,
		Username:     profile.Username,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		PhotoURL:     profile.PhotoURL,
		TradeMode:    models.TradeModeLoss,
		Verification: models.VerificationPending,
		Status:       models.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Возможна гонка двух первых запросов одного пользователя:
		// уникальный индекс по telegram_id отклонит второй insert.
		existing, getErr := s.repo.GetUserByTelegramID(ctx, profile.TelegramID)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("👤 Новый пользователь: telegram_id=%d id=%s", user.TelegramID, user.ID)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (s *Service) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

// SetTradeMode задает скрытый режим торговли. Только для оператора.
// Режим читается в момент закрытия сделки, поэтому смена влияет и на уже
// открытые сделки.
func (s *Service) SetTradeMode(ctx context.Context, userID, mode string) error {
	if mode != models.TradeModeWin && mode != models.TradeModeLoss {
		return fmt.Errorf("%w: invalid trade mode %q", apperr.ErrValidation, mode)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	user.TradeMode = mode
	user.UpdatedAt = time.Now()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update trade mode: %w", err)
	}

	s.logger.Infof("⚙ Режим торговли пользователя %s: %s", userID, mode)
	return nil
}

// SetUserStatus блокирует или разблокирует пользователя.
func (s *Service) SetUserStatus(ctx context.Context, userID, status string) error {
	if status != models.UserStatusActive && status != models.UserStatusBlocked {
		return fmt.Errorf("%w: invalid status %q", apperr.ErrValidation, status)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	user.Status = status
	user.UpdatedAt = time.Now()
	return s.repo.UpdateUser(ctx, user)
}

// SubmitVerification переводит пользователя в статус "документы отправлены".
func (s *Service) SubmitVerification(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verification == models.VerificationVerified {
		return apperr.ErrAlreadyResolved
	}

	user.Verification = models.VerificationSubmitted
	user.UpdatedAt = time.Now()
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to submit verification: %w", err)
	}

	s.notifyAdmins(fmt.Sprintf("📋 Пользователь %s отправил документы на верификацию", user.Username))
	return nil
}

// ReviewVerification — решение оператора по верификации.
func (s *Service) ReviewVerification(ctx context.Context, userID string, approve bool) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verification != models.VerificationSubmitted {
		return apperr.ErrAlreadyResolved
	}

	if approve {
		user.Verification = models.VerificationVerified
	} else {
		user.Verification = models.VerificationRejected
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to review verification: %w", err)
	}

	if approve {
		s.notifyUser(user.TelegramID, "✅ Верификация пройдена")
	} else {
		s.notifyUser(user.TelegramID, "❌ Верификация отклонена")
	}
	return nil
}
