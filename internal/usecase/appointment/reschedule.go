package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	domainwl "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

type RescheduleInput struct {
	SalonID       uint
	AppointmentID uint

	// NewStaffID 0 keeps the current staff member.
	NewStaffID  uint
	NewStartsAt time.Time

	ActorID       uint
	RescheduledBy string
}

// RescheduleAppointment moves a booking to a new interval. The cancellation
// of the old row and the reserve of the new one run as a single transaction,
// so the booking either moves entirely or stays where it was, and the row
// being moved never blocks its own replacement interval. The snapshot rows
// are copied, not recomputed: a reschedule never reprices.
type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	freed FreedSlotSink
	time  TimeProvider
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	freed FreedSlotSink,
) *RescheduleAppointment {
	return &RescheduleAppointment{repo: repo, audit: audit, freed: freed, time: RealTimeProvider{}}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	old, err := uc.repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureTenant(in.SalonID, old.SalonID); err != nil {
		return nil, err
	}
	if err := domain.CanTransition(domain.Status(old.Status), domain.StatusCancelled); err != nil {
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

	loc := timezone.Location(salon.Timezone)
	now := uc.time.Now().In(loc)
	startsAt := in.NewStartsAt.In(loc)

	// Only the time bounds apply to a move; the booking itself already
	// passed the per-customer and per-day limits.
	if v := domain.ValidateBooking(*rules, domain.BookingCheck{StartsAt: startsAt}, now); v != nil {
		return nil, v
	}

	staffID := old.StaffID
	if in.NewStaffID != 0 {
		staff, err := uc.repo.GetStaff(ctx, in.SalonID, in.NewStaffID)
		if err != nil {
			return nil, err
		}
		if !staff.Active {
			return nil, domain.ErrNotFound
		}
		staffID = staff.ID
	}

	span := old.EndsAt.Sub(old.StartsAt)
	endsAt := startsAt.Add(span)

	dayStart := startOfDay(startsAt, loc)
	if err := withinWorkingHours(ctx, uc.repo, staffID, dayStart, startsAt, endsAt); err != nil {
		return nil, err
	}

	rows, err := uc.repo.ListAppointmentServices(ctx, old.ID)
	if err != nil {
		return nil, err
	}
	copied := make([]models.AppointmentService, 0, len(rows))
	for _, row := range rows {
		copied = append(copied, models.AppointmentService{
			ServiceID:           row.ServiceID,
			SnapshotName:        row.SnapshotName,
			SnapshotPriceChf:    row.SnapshotPriceChf,
			SnapshotTaxRate:     row.SnapshotTaxRate,
			SnapshotDurationMin: row.SnapshotDurationMin,
		})
	}

	moved := &models.Appointment{
		SalonID:         old.SalonID,
		StaffID:         staffID,
		CustomerID:      old.CustomerID,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		BufferBeforeMin: old.BufferBeforeMin,
		BufferAfterMin:  old.BufferAfterMin,
		Status:          old.Status,
		ReservedUntil:   old.ReservedUntil,
		HoldToken:       uuid.New(),
		DepositChf:      old.DepositChf,
		DepositStatus:   old.DepositStatus,
		DepositPaidAt:   old.DepositPaidAt,
		PaymentRef:      old.PaymentRef,
		Notes:           old.Notes,
	}

	prev := domain.Status(old.Status)
	if err := domain.Cancel(old, now, in.RescheduledBy, "rescheduled"); err != nil {
		return nil, err
	}
	if err := uc.repo.MoveAppointment(ctx, moved, copied, old, prev); err != nil {
		return nil, err
	}

	if domain.FreesInterval(prev) {
		serviceIDs := make([]uint, 0, len(rows))
		for _, row := range rows {
			serviceIDs = append(serviceIDs, row.ServiceID)
		}
		uc.freed.SlotFreed(old.SalonID, domainwl.FreedSlot{
			StaffID:    old.StaffID,
			StartsAt:   old.StartsAt,
			EndsAt:     old.EndsAt,
			ServiceIDs: serviceIDs,
		})
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		ActorID:  &in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &moved.ID,
	})

	return moved, nil
}
