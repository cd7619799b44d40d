package appointment

import (
	"context"
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// TransitionKind names the simple forward transitions a staff member drives
// from the calendar: check-in, start, complete.
type TransitionKind string

const (
	TransitionCheckIn  TransitionKind = "check_in"
	TransitionStart    TransitionKind = "start"
	TransitionComplete TransitionKind = "complete"
)

// TransitionAppointment applies one forward lifecycle step. The transition
// table decides legality; persistence is conditioned on the previous status.
type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	time  TimeProvider
}

func NewTransitionAppointment(repo domain.Repository, audit *audit.Dispatcher) *TransitionAppointment {
	return &TransitionAppointment{repo: repo, audit: audit, time: RealTimeProvider{}}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	salonID uint,
	actorID uint,
	appointmentID uint,
	kind TransitionKind,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, salonID, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureTenant(salonID, ap.SalonID); err != nil {
		return nil, err
	}

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	now := uc.time.Now().In(timezone.Location(salon.Timezone))

	prev := domain.Status(ap.Status)
	if err := apply(ap, kind, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		ActorID:  &actorID,
		Action:   "appointment_" + string(kind),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func apply(ap *models.Appointment, kind TransitionKind, now time.Time) error {
	switch kind {
	case TransitionCheckIn:
		return domain.CheckIn(ap)
	case TransitionStart:
		return domain.Start(ap)
	case TransitionComplete:
		return domain.Complete(ap, now)
	default:
		return &domain.InvalidTransitionError{From: domain.Status(ap.Status)}
	}
}
