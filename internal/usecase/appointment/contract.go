package appointment

import (
	"context"
	"time"

	domainwl "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// TimeProvider abstracts "now" so policy checks are testable.
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// Notifier is the external notification dispatcher. Calls are fire-and-
// forget: correctness never waits on delivery.
type Notifier interface {
	AppointmentConfirmed(salon *models.Salon, ap *models.Appointment)
	AppointmentCancelled(salon *models.Salon, ap *models.Appointment)
}

// DepositCharger is the payment collaborator. Failures surface as a deposit
// sub-state; this core never retries a charge.
type DepositCharger interface {
	ChargeDeposit(ctx context.Context, ap *models.Appointment, amountChf float64) (ref string, err error)
	ChargeNoShow(ctx context.Context, ap *models.Appointment, amountChf float64) (ref string, err error)
}

// FreedSlotSink receives intervals that became bookable again. Dispatch must
// not block the calling operation.
type FreedSlotSink interface {
	SlotFreed(salonID uint, slot domainwl.FreedSlot)
}
