package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/metrics"
)

// ExpireStale sweeps holds whose reservation window lapsed. Every expiry is
// one conditional UPDATE keyed on the current status, so the sweep is
// idempotent and safe to run from any number of workers at once. Expired
// holds free intervals that were never final, so the waitlist is not
// notified.
type ExpireStale struct {
	repo domain.Repository
	log  *zap.SugaredLogger
	time TimeProvider
}

func NewExpireStale(repo domain.Repository, log *zap.SugaredLogger) *ExpireStale {
	return &ExpireStale{repo: repo, log: log, time: RealTimeProvider{}}
}

func (uc *ExpireStale) Execute(ctx context.Context) (int64, error) {
	now := uc.time.Now()

	expired, err := uc.repo.ExpireStaleReservations(ctx, now)
	if err != nil {
		uc.log.Errorw("expire sweep failed", "err", err)
		return 0, err
	}

	if expired > 0 {
		metrics.ExpiredHolds.Add(float64(expired))
		uc.log.Infow("expired stale reservations", "count", expired)
	}
	return expired, nil
}
