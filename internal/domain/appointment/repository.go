package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type Repository interface {
	// -------- Salon / policy --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	GetSalonBySlug(
		ctx context.Context,
		slug string,
	) (*models.Salon, error)

	GetBookingRules(
		ctx context.Context,
		salonID uint,
	) (*models.BookingRules, error)

	SaveBookingRules(
		ctx context.Context,
		rules *models.BookingRules,
	) error

	// -------- Catalog (read-only to this core) --------
	ListServices(
		ctx context.Context,
		salonID uint,
		serviceIDs []uint,
	) ([]models.Service, error)

	ListActiveServices(
		ctx context.Context,
		salonID uint,
	) ([]models.Service, error)

	// -------- Staff / skills --------
	GetStaff(
		ctx context.Context,
		salonID uint,
		staffID uint,
	) (*models.StaffMember, error)

	// ListEligibleStaff returns active staff of the salon whose skill set
	// covers every requested service.
	ListEligibleStaff(
		ctx context.Context,
		salonID uint,
		serviceIDs []uint,
	) ([]models.StaffMember, error)

	// GetCustomDurations returns per-service duration overrides for one
	// staff member, keyed by service ID.
	GetCustomDurations(
		ctx context.Context,
		staffID uint,
		serviceIDs []uint,
	) (map[uint]int, error)

	// -------- Working hours / absences --------
	GetWorkingHours(
		ctx context.Context,
		staffID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListWorkingHours(
		ctx context.Context,
		staffID uint,
	) ([]models.WorkingHours, error)

	ReplaceWorkingHours(
		ctx context.Context,
		staffID uint,
		hours []models.WorkingHours,
	) error

	GetOverrideForDate(
		ctx context.Context,
		staffID uint,
		date time.Time,
	) (*models.WorkingHoursOverride, error)

	CreateWorkingHoursOverride(
		ctx context.Context,
		ov *models.WorkingHoursOverride,
	) error

	DeleteWorkingHoursOverride(
		ctx context.Context,
		salonID uint,
		overrideID uint,
	) error

	ListAbsencesForDate(
		ctx context.Context,
		staffID uint,
		date time.Time,
	) ([]models.Absence, error)

	CreateAbsence(
		ctx context.Context,
		ab *models.Absence,
	) error

	DeleteAbsence(
		ctx context.Context,
		salonID uint,
		absenceID uint,
	) error

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Appointment (atomic reserve) --------

	// ReserveAppointment performs the overlap check and the insert as one
	// serializable transaction: of two racing calls for the same staff and
	// interval exactly one wins, the other gets ErrSlotConflict with no side
	// effects. Snapshot rows are written in the same transaction.
	ReserveAppointment(
		ctx context.Context,
		ap *models.Appointment,
		services []models.AppointmentService,
	) error

	// MoveAppointment cancels the old row (conditioned on prevStatus) and
	// reserves the replacement in one transaction. The overlap check runs
	// after the cancellation, so an appointment may move onto an interval
	// overlapping its own; any failure leaves the old row untouched.
	MoveAppointment(
		ctx context.Context,
		moved *models.Appointment,
		services []models.AppointmentService,
		old *models.Appointment,
		prevStatus Status,
	) error

	GetAppointment(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	GetAppointmentByHoldToken(
		ctx context.Context,
		salonID uint,
		token uuid.UUID,
	) (*models.Appointment, error)

	ListAppointmentServices(
		ctx context.Context,
		appointmentID uint,
	) ([]models.AppointmentService, error)

	// UpdateAppointmentStatus persists an in-memory transition conditioned
	// on the row still holding prevStatus (compare-and-swap). Returns
	// ErrNotFound when the row moved on concurrently.
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		prevStatus Status,
	) error

	// ExpireStaleReservations flips every reserved row with reservedUntil <
	// now to cancelled(expired) in a single conditional UPDATE. Idempotent;
	// safe to run from multiple workers.
	ExpireStaleReservations(
		ctx context.Context,
		now time.Time,
	) (int64, error)

	// -------- Availability reads --------
	ListBlockingAppointments(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	CountSalonBookingsForDay(
		ctx context.Context,
		salonID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) (int, error)

	CountActiveHolds(
		ctx context.Context,
		salonID uint,
		customerID uint,
		now time.Time,
	) (int, error)

	ListAppointmentsForDay(
		ctx context.Context,
		salonID uint,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)
}
