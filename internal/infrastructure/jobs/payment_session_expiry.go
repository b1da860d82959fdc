package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citizen-portal.backend/internal/domain/entities"
	"citizen-portal.backend/pkg/logger"
)

const expiryBatchSize = 100

type paymentSessionExpiryRepo interface {
	GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.PaymentSession, error)
	ExpireSessions(ctx context.Context, ids []uuid.UUID) error
}

// PaymentSessionExpiryJob expires checkout sessions that were never paid and drops the form
// data they held
type PaymentSessionExpiryJob struct {
	repo     paymentSessionExpiryRepo
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	stop     chan struct{}
}

func NewPaymentSessionExpiryJob(repo paymentSessionExpiryRepo, interval, maxAge time.Duration) *PaymentSessionExpiryJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PaymentSessionExpiryJob{
		repo:     repo,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *PaymentSessionExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting payment session expiry job",
		zap.Duration("interval", j.interval),
		zap.Duration("max_age", j.maxAge),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Payment session expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Payment session expiry job stopped")
			return
		case <-ticker.C:
			j.processExpiredSessions(ctx)
		}
	}
}

func (j *PaymentSessionExpiryJob) Stop() {
	close(j.stop)
}

func (j *PaymentSessionExpiryJob) processExpiredSessions(ctx context.Context) {
	cutoff := j.now().Add(-j.maxAge)
	expired, err := j.repo.GetExpiredPending(ctx, cutoff, expiryBatchSize)
	if err != nil {
		logger.Error(ctx, "Error fetching expired payment sessions", zap.Error(err))
		return
	}

	if len(expired) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(expired))
	for _, s := range expired {
		ids = append(ids, s.ID)
	}

	if err := j.repo.ExpireSessions(ctx, ids); err != nil {
		logger.Error(ctx, "Error expiring payment sessions", zap.Int("count", len(ids)), zap.Error(err))
		return
	}

	logger.Info(ctx, "Expired payment sessions", zap.Int("count", len(ids)))
}
