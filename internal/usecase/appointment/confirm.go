package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// ConfirmReservation turns a live hold into a booking: straight to confirmed,
// or to requested when the salon reviews bookings manually. A required
// deposit is charged here; a failed charge leaves the appointment in the
// deposit-pending sub-state instead of blocking it.
type ConfirmReservation struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	payments DepositCharger
	time     TimeProvider
}

func NewConfirmReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	payments DepositCharger,
) *ConfirmReservation {
	return &ConfirmReservation{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		payments: payments,
		time:     RealTimeProvider{},
	}
}

// ExecuteByToken confirms a hold from the anonymous public flow.
func (uc *ConfirmReservation) ExecuteByToken(
	ctx context.Context,
	salonID uint,
	token uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByHoldToken(ctx, salonID, token)
	if err != nil {
		return nil, err
	}
	return uc.confirm(ctx, salonID, ap)
}

func (uc *ConfirmReservation) confirm(
	ctx context.Context,
	salonID uint,
	ap *models.Appointment,
) (*models.Appointment, error) {

	if err := domain.EnsureTenant(salonID, ap.SalonID); err != nil {
		return nil, err
	}

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	rules, err := uc.repo.GetBookingRules(ctx, salonID)
	if err != nil {
		return nil, err
	}

	now := uc.time.Now().In(timezone.Location(salon.Timezone))
	prev := domain.Status(ap.Status)

	if err := domain.Confirm(ap, now, rules.RequiresApproval); err != nil {
		return nil, err
	}

	if ap.DepositChf > 0 && ap.DepositStatus != domain.DepositPaid {
		ref, chargeErr := uc.payments.ChargeDeposit(ctx, ap, ap.DepositChf)
		if chargeErr != nil {
			// Surfaced as a sub-state; never retried here.
			ap.DepositStatus = domain.DepositPending
		} else {
			ap.DepositStatus = domain.DepositPaid
			ap.DepositPaidAt = &now
			ap.PaymentRef = ref
		}
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		if err == domain.ErrNotFound {
			// The row moved on concurrently, most likely the sweep
			// expired the hold between our read and the update.
			return nil, domain.ErrReservationExpired
		}
		return nil, err
	}

	uc.notifier.AppointmentConfirmed(salon, ap)

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
