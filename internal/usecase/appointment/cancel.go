package appointment

import (
	"context"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	domainwl "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CancelInput struct {
	SalonID       uint
	AppointmentID uint

	// CancelledBy is "customer" or "staff"; it decides nothing here but is
	// recorded, and the late flag lets the caller choose the no-show policy
	// instead of a free cancellation.
	CancelledBy string
	Reason      string
	ActorID     *uint
}

type CancelResult struct {
	Appointment *models.Appointment `json:"appointment"`

	// Late is true when the cancellation happened inside the salon's
	// cancellation cutoff. Surfaced, never silently applied.
	Late bool `json:"late"`
}

// ======================================================
// USE CASE
// ======================================================

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	freed    FreedSlotSink
	time     TimeProvider
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	freed FreedSlotSink,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		freed:    freed,
		time:     RealTimeProvider{},
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*CancelResult, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureTenant(in.SalonID, ap.SalonID); err != nil {
		return nil, err
	}

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	rules, err := uc.repo.GetBookingRules(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	now := uc.time.Now().In(timezone.Location(salon.Timezone))

	prev := domain.Status(ap.Status)
	late := domain.IsLateCancellation(ap, now, rules.CancellationCutoffHours)

	if err := domain.Cancel(ap, now, in.CancelledBy, in.Reason); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.notifier.AppointmentCancelled(salon, ap)

	// Waitlist dispatch is fire-and-forget; the cancellation response never
	// waits on it.
	if domain.FreesInterval(prev) {
		uc.dispatchFreedSlot(ctx, ap)
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		ActorID:  in.ActorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return &CancelResult{Appointment: ap, Late: late}, nil
}

func (uc *CancelAppointment) dispatchFreedSlot(ctx context.Context, ap *models.Appointment) {
	rows, err := uc.repo.ListAppointmentServices(ctx, ap.ID)
	if err != nil {
		return
	}
	serviceIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		serviceIDs = append(serviceIDs, row.ServiceID)
	}

	uc.freed.SlotFreed(ap.SalonID, domainwl.FreedSlot{
		StaffID:    ap.StaffID,
		StartsAt:   ap.StartsAt,
		EndsAt:     ap.EndsAt,
		ServiceIDs: serviceIDs,
	})
}
