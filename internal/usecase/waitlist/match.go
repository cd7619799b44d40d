package waitlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainap "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/metrics"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

const matchTimeout = 10 * time.Second

// MatchFreedSlot walks the salon's waitlist when an interval becomes bookable
// again. Matches are processed FIFO; each flip to notified is conditioned on
// the entry still being active, so two matchers racing over the same freed
// slot cannot double-notify. Entries whose date range already passed are
// lazily flipped to expired here.
type MatchFreedSlot struct {
	catalog  domainap.Repository
	repo     domain.Repository
	notifier Notifier
	log      *zap.SugaredLogger
	time     TimeProvider
}

func NewMatchFreedSlot(
	catalog domainap.Repository,
	repo domain.Repository,
	notifier Notifier,
	log *zap.SugaredLogger,
) *MatchFreedSlot {
	return &MatchFreedSlot{
		catalog:  catalog,
		repo:     repo,
		notifier: notifier,
		log:      log,
		time:     RealTimeProvider{},
	}
}

// SlotFreed satisfies the freed-slot sink used by cancellation, reschedule
// and expiry. It must not block the caller, so matching runs detached.
func (uc *MatchFreedSlot) SlotFreed(salonID uint, slot domain.FreedSlot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), matchTimeout)
		defer cancel()
		if err := uc.Execute(ctx, salonID, slot); err != nil {
			uc.log.Errorw("waitlist match failed",
				"salon_id", salonID,
				"staff_id", slot.StaffID,
				"starts_at", slot.StartsAt,
				"error", err,
			)
		}
	}()
}

func (uc *MatchFreedSlot) Execute(ctx context.Context, salonID uint, slot domain.FreedSlot) error {
	salon, err := uc.catalog.GetSalonByID(ctx, salonID)
	if err != nil {
		return err
	}

	// Stored instants arrive as UTC; the preference, weekday and date-range
	// filters read salon-local wall clock fields.
	loc := timezone.Location(salon.Timezone)
	slot.StartsAt = slot.StartsAt.In(loc)
	slot.EndsAt = slot.EndsAt.In(loc)

	entries, err := uc.repo.ListActiveFIFO(ctx, salonID)
	if err != nil {
		return err
	}

	now := uc.time.Now().In(loc)
	matched, lapsed := domain.MatchFreedSlot(entries, slot, now)

	if len(lapsed) > 0 {
		ids := entryIDs(lapsed)
		if err := uc.repo.MarkExpired(ctx, ids); err != nil {
			return err
		}
	}
	if len(matched) == 0 {
		return nil
	}

	for i := range matched {
		entry := &matched[i]
		flipped, err := uc.repo.MarkNotified(ctx, []uint{entry.ID}, now)
		if err != nil {
			return err
		}
		if flipped == 0 {
			// Another matcher got there first.
			continue
		}
		metrics.WaitlistMatches.Inc()
		uc.notifier.WaitlistSlotAvailable(salon, entry, slot)
	}
	return nil
}

func entryIDs(entries []models.WaitlistEntry) []uint {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
