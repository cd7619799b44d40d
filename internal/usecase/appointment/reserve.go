package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/metrics"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	SalonID uint
	StaffID uint

	ServiceIDs []uint
	StartsAt   time.Time

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// Reserve acquires a time-boxed hold on a slot. The overlap check and insert
// run atomically in the repository; two racing calls for the same staff and
// interval resolve to exactly one winner.
type Reserve struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	time  TimeProvider
}

func NewReserve(repo domain.Repository, audit *audit.Dispatcher) *Reserve {
	return &Reserve{repo: repo, audit: audit, time: RealTimeProvider{}}
}

func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	rules, err := uc.repo.GetBookingRules(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("no_services_selected")
	}
	services, err := uc.repo.ListServices(ctx, in.SalonID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	staff, err := uc.repo.GetStaff(ctx, in.SalonID, in.StaffID)
	if err != nil {
		return nil, err
	}
	if err := domain.EnsureTenant(in.SalonID, staff.SalonID); err != nil {
		return nil, err
	}
	if !staff.Active {
		return nil, httperr.ErrBusiness("staff_inactive")
	}
	if err := uc.ensureSkills(ctx, in); err != nil {
		return nil, err
	}

	loc := timezone.Location(salon.Timezone)
	now := uc.time.Now().In(loc)
	startsAt := in.StartsAt.In(loc)

	customer, err := uc.repo.GetOrCreateCustomer(
		ctx, in.SalonID, in.CustomerName, in.CustomerPhone, in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	// Policy checks run before any side effect; a violation leaves no row
	// behind.
	dayStart := startOfDay(startsAt, loc)
	dayCount, err := uc.repo.CountSalonBookingsForDay(ctx, in.SalonID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	holds, err := uc.repo.CountActiveHolds(ctx, in.SalonID, customer.ID, now)
	if err != nil {
		return nil, err
	}

	if v := domain.ValidateBooking(*rules, domain.BookingCheck{
		StartsAt:            startsAt,
		SalonDayBookings:    dayCount,
		CustomerActiveHolds: holds,
		RequiresDeposit:     domain.AnyRequiresDeposit(services),
	}, now); v != nil {
		metrics.PolicyRejections.WithLabelValues(string(v.Kind)).Inc()
		return nil, v
	}

	custom, err := uc.repo.GetCustomDurations(ctx, in.StaffID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	total, before, after := domain.CombineServices(services, custom, rules.DefaultBufferMinutes)
	endsAt := startsAt.Add(time.Duration(total) * time.Minute)

	if err := withinWorkingHours(ctx, uc.repo, in.StaffID, dayStart, startsAt, endsAt); err != nil {
		return nil, err
	}

	snapshot := snapshotRows(services, custom)

	reservedUntil := now.Add(time.Duration(rules.ReservationTimeoutMinutes) * time.Minute)
	ap := &models.Appointment{
		SalonID:         in.SalonID,
		StaffID:         in.StaffID,
		CustomerID:      customer.ID,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		BufferBeforeMin: before,
		BufferAfterMin:  after,
		Status:          string(domain.InitialStatus()),
		ReservedUntil:   &reservedUntil,
		HoldToken:       uuid.New(),
		DepositStatus:   domain.DepositNone,
		Notes:           in.Notes,
	}

	if domain.AnyRequiresDeposit(services) {
		ap.DepositChf = domain.DepositAmount(*rules, domain.SnapshotTotal(snapshot))
	}

	if err := uc.repo.ReserveAppointment(ctx, ap, snapshot); err != nil {
		if err == domain.ErrSlotConflict {
			metrics.ReservationConflicts.Inc()
		}
		return nil, err
	}

	metrics.ReservationsCreated.Inc()

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		Action:   "appointment_reserved",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// ensureSkills verifies the chosen staff member can perform every requested
// service.
func (uc *Reserve) ensureSkills(ctx context.Context, in ReserveInput) error {
	eligible, err := uc.repo.ListEligibleStaff(ctx, in.SalonID, in.ServiceIDs)
	if err != nil {
		return err
	}
	for _, member := range eligible {
		if member.ID == in.StaffID {
			return nil
		}
	}
	return httperr.ErrBusiness("staff_not_qualified")
}

// withinWorkingHours checks that the candidate interval fits entirely inside
// one open interval of the staff member's resolved schedule for the day.
func withinWorkingHours(
	ctx context.Context,
	repo domain.Repository,
	staffID uint,
	dayStart, startsAt, endsAt time.Time,
) error {

	recurring, err := repo.GetWorkingHours(ctx, staffID, int(dayStart.Weekday()))
	if err != nil {
		return err
	}
	override, err := repo.GetOverrideForDate(ctx, staffID, dayStart)
	if err != nil {
		return err
	}
	absences, err := repo.ListAbsencesForDate(ctx, staffID, dayStart)
	if err != nil {
		return err
	}

	open := domain.ResolveOpenIntervals(domain.DaySchedule{
		Recurring: recurring,
		Override:  override,
		Absences:  absences,
	}, dayStart)

	want, ok := domain.ClipToDay(startsAt, endsAt, dayStart)
	if !ok {
		return httperr.ErrBusiness("outside_working_hours")
	}
	for _, iv := range open {
		if want.Start >= iv.Start && want.End <= iv.End {
			return nil
		}
	}
	return httperr.ErrBusiness("outside_working_hours")
}

func snapshotRows(services []models.Service, custom map[uint]int) []models.AppointmentService {
	rows := make([]models.AppointmentService, 0, len(services))
	for _, svc := range services {
		dur := svc.DurationMin
		if c, ok := custom[svc.ID]; ok && c > 0 {
			dur = c
		}
		rows = append(rows, models.AppointmentService{
			ServiceID:           svc.ID,
			SnapshotName:        svc.Name,
			SnapshotPriceChf:    svc.PriceChf,
			SnapshotTaxRate:     svc.TaxRate,
			SnapshotDurationMin: dur,
		})
	}
	return rows
}
