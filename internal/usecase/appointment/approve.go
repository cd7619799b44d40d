package appointment

import (
	"context"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// ApproveAppointment finalizes a manually reviewed booking
// (requested -> confirmed).
type ApproveAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewApproveAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
) *ApproveAppointment {
	return &ApproveAppointment{repo: repo, audit: audit, notifier: notifier}
}

func (uc *ApproveAppointment) Execute(
	ctx context.Context,
	salonID uint,
	actorID uint,
	appointmentID uint,
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

	prev := domain.Status(ap.Status)
	if err := domain.Approve(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	uc.notifier.AppointmentConfirmed(salon, ap)

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		ActorID:  &actorID,
		Action:   "appointment_approved",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
