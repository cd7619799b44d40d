package appointment

import (
	"context"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

const (
	NoShowPolicyNone          = "none"
	NoShowPolicyChargeDeposit = "charge_deposit"
	NoShowPolicyChargeFull    = "charge_full"
)

type NoShowResult struct {
	Appointment *models.Appointment `json:"appointment"`

	// ChargeAttempted/ChargeFailed surface the payment outcome; a failed
	// charge is reported, never retried here.
	ChargeAttempted bool    `json:"charge_attempted"`
	ChargeFailed    bool    `json:"charge_failed"`
	ChargedChf      float64 `json:"charged_chf"`
}

// MarkNoShow flags a customer who did not appear and applies the salon's
// no-show policy through the payment collaborator.
type MarkNoShow struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	payments DepositCharger
	time     TimeProvider
}

func NewMarkNoShow(
	repo domain.Repository,
	audit *audit.Dispatcher,
	payments DepositCharger,
) *MarkNoShow {
	return &MarkNoShow{repo: repo, audit: audit, payments: payments, time: RealTimeProvider{}}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	salonID uint,
	actorID uint,
	appointmentID uint,
) (*NoShowResult, error) {

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
	rules, err := uc.repo.GetBookingRules(ctx, salonID)
	if err != nil {
		return nil, err
	}

	now := uc.time.Now().In(timezone.Location(salon.Timezone))

	prev := domain.Status(ap.Status)
	if err := domain.MarkNoShow(ap, now); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, prev); err != nil {
		return nil, err
	}

	result := &NoShowResult{Appointment: ap}

	amount, err := uc.chargeAmount(ctx, ap, rules.NoShowPolicy)
	if err != nil {
		return nil, err
	}
	if amount > 0 {
		result.ChargeAttempted = true
		result.ChargedChf = amount
		if _, chargeErr := uc.payments.ChargeNoShow(ctx, ap, amount); chargeErr != nil {
			result.ChargeFailed = true
		}
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		ActorID:  &actorID,
		Action:   "appointment_no_show",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return result, nil
}

func (uc *MarkNoShow) chargeAmount(
	ctx context.Context,
	ap *models.Appointment,
	policy string,
) (float64, error) {

	switch policy {
	case NoShowPolicyChargeDeposit:
		return ap.DepositChf, nil
	case NoShowPolicyChargeFull:
		rows, err := uc.repo.ListAppointmentServices(ctx, ap.ID)
		if err != nil {
			return 0, err
		}
		return domain.SnapshotTotal(rows), nil
	default:
		return 0, nil
	}
}
