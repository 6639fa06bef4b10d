package service

import (
	"context"
	"time"
)

const settlerBatchSize = 100

// StartSettler запускает фоновый цикл закрытия просроченных сделок.
// Истечение срока — дедлайн, а не жесткая отмена: опоздавшее закрытие
// допустимо, гонка с клиентским опросом разрешается идемпотентностью
// CloseTrade.
func (s *Service) StartSettler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.settleExpired(ctx)
			case <-ctx.Done():
				s.logger.Info("Settler stopped")
				return
			}
		}
	}()
}

func (s *Service) settleExpired(ctx context.Context) {
	trades, err := s.repo.ListExpiredActiveTrades(ctx, time.Now(), settlerBatchSize)
	if err != nil {
		s.logger.Errorf("❌ Failed to list expired trades: %v", err)
		return
	}

	for _, trade := range trades {
		if _, err := s.CloseTrade(ctx, trade.ID); err != nil {
			s.logger.Errorf("❌ Failed to settle trade %s: %v", trade.ID, err)
		}
	}
}
