package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// AbandonHold cancels a still-reserved hold from the public flow. Freed
// holds never notify the waitlist: the interval was only tentatively taken.
type AbandonHold struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	time  TimeProvider
}

func NewAbandonHold(repo domain.Repository, audit *audit.Dispatcher) *AbandonHold {
	return &AbandonHold{repo: repo, audit: audit, time: RealTimeProvider{}}
}

func (uc *AbandonHold) Execute(
	ctx context.Context,
	salonID uint,
	token uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByHoldToken(ctx, salonID, token)
	if err != nil {
		return nil, err
	}
	if domain.Status(ap.Status) != domain.StatusReserved {
		return nil, &domain.InvalidTransitionError{
			From: domain.Status(ap.Status),
			To:   domain.StatusCancelled,
		}
	}

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	now := uc.time.Now().In(timezone.Location(salon.Timezone))

	prev := domain.Status(ap.Status)
	if err := domain.Cancel(ap, now, domain.CancelledByCustomer, "abandoned"); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		Action:   "hold_abandoned",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
