package waitlist

import (
	"time"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// TimeProvider abstracts "now" so matching is testable.
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// Notifier delivers the "a slot opened up" message. Fire-and-forget;
// matching never waits on delivery.
type Notifier interface {
	WaitlistSlotAvailable(salon *models.Salon, entry *models.WaitlistEntry, slot domain.FreedSlot)
}
