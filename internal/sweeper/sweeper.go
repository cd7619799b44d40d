package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	usecase "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/appointment"
)

const sweepTimeout = 30 * time.Second

// Sweeper runs the stale-hold expiry on a fixed schedule. Safe to run from
// any number of instances; every expiry is an individual compare-and-swap.
type Sweeper struct {
	cron   *cron.Cron
	expire *usecase.ExpireStale
	log    *zap.SugaredLogger
}

func New(expire *usecase.ExpireStale, log *zap.SugaredLogger) *Sweeper {
	return &Sweeper{cron: cron.New(), expire: expire, log: log}
}

func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc("@every 1m", s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("stale-hold sweeper started", "interval", "1m")
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.expire.Execute(ctx); err != nil {
		s.log.Errorw("sweep run failed", "error", err)
	}
}
