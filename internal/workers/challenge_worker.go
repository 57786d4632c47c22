package workers

import (
	"context"
	"time"

	"allsers_backend/internal/logger"
	"allsers_backend/internal/repositories"
)

// ChallengeWorker closes challenges whose end date has passed.
type ChallengeWorker struct {
	challengeRepo repositories.ChallengeRepository
}

func NewChallengeWorker(challengeRepo repositories.ChallengeRepository) *ChallengeWorker {
	return &ChallengeWorker{challengeRepo: challengeRepo}
}

func (w *ChallengeWorker) Start(ctx context.Context) {
	go w.autoCloseChallenges(ctx)
}

func (w *ChallengeWorker) autoCloseChallenges(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("challenge worker stopped")
			return
		case <-ticker.C:
			closed, err := w.challengeRepo.CloseExpired(time.Now())
			if err != nil {
				logger.WorkerLog("challenge", "auto-close", err)
			} else if closed > 0 {
				logger.Info("auto-closed expired challenges", "count", closed)
			}
		}
	}
}
