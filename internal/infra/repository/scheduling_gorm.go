package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// pgSerializationFailure is SQLSTATE 40001: the serializable transaction
// lost against a concurrent one. For a reserve this means the slot was taken.
const pgSerializationFailure = "40001"

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

func blockingStatuses() []string {
	out := make([]string, 0, len(domain.BlockingStatuses))
	for _, s := range domain.BlockingStatuses {
		out = append(out, string(s))
	}
	return out
}

// --------------------------------------------------
// Salon / policy
// --------------------------------------------------

func (r *SchedulingGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &salon, nil
}

func (r *SchedulingGormRepository) GetSalonBySlug(
	ctx context.Context,
	slug string,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND active", slug).
		First(&salon).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &salon, nil
}

func (r *SchedulingGormRepository) GetBookingRules(
	ctx context.Context,
	salonID uint,
) (*models.BookingRules, error) {

	var rules models.BookingRules
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		First(&rules).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Salons without an explicit policy row run on model defaults.
		return &models.BookingRules{
			SalonID:                            salonID,
			MinLeadTimeMinutes:                 120,
			MaxBookingHorizonDays:              90,
			SlotGranularityMinutes:             15,
			ReservationTimeoutMinutes:          15,
			CancellationCutoffHours:            24,
			MaxConcurrentReservationsPerClient: 1,
			NoShowPolicy:                       "none",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *SchedulingGormRepository) SaveBookingRules(
	ctx context.Context,
	rules *models.BookingRules,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "salon_id"}},
			UpdateAll: true,
		}).
		Create(rules).Error
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *SchedulingGormRepository) ListServices(
	ctx context.Context,
	salonID uint,
	serviceIDs []uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND id IN ? AND active", salonID, serviceIDs).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *SchedulingGormRepository) ListActiveServices(
	ctx context.Context,
	salonID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active", salonID).
		Order("category, name").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Staff / skills
// --------------------------------------------------

func (r *SchedulingGormRepository) GetStaff(
	ctx context.Context,
	salonID uint,
	staffID uint,
) (*models.StaffMember, error) {

	var staff models.StaffMember
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", staffID, salonID).
		First(&staff).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &staff, nil
}

func (r *SchedulingGormRepository) ListEligibleStaff(
	ctx context.Context,
	salonID uint,
	serviceIDs []uint,
) ([]models.StaffMember, error) {

	// Staff qualifies only when their skill set covers every requested
	// service.
	covering := r.db.Model(&models.StaffSkill{}).
		Select("staff_id").
		Where("service_id IN ?", serviceIDs).
		Group("staff_id").
		Having("COUNT(DISTINCT service_id) = ?", len(serviceIDs))

	var staff []models.StaffMember
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active AND id IN (?)", salonID, covering).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *SchedulingGormRepository) GetCustomDurations(
	ctx context.Context,
	staffID uint,
	serviceIDs []uint,
) (map[uint]int, error) {

	var skills []models.StaffSkill
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND service_id IN ?", staffID, serviceIDs).
		Find(&skills).Error; err != nil {
		return nil, err
	}

	custom := make(map[uint]int)
	for _, skill := range skills {
		if skill.CustomDurationMin != nil {
			custom[skill.ServiceID] = *skill.CustomDurationMin
		}
	}
	return custom, nil
}

// --------------------------------------------------
// Working hours / absences
// --------------------------------------------------

func (r *SchedulingGormRepository) GetWorkingHours(
	ctx context.Context,
	staffID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ?", staffID, weekday).
		First(&wh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *SchedulingGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *SchedulingGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	staffID uint,
	hours []models.WorkingHours,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staffID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
}

func (r *SchedulingGormRepository) GetOverrideForDate(
	ctx context.Context,
	staffID uint,
	date time.Time,
) (*models.WorkingHoursOverride, error) {

	var ov models.WorkingHoursOverride
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND start_date <= ? AND end_date >= ?", staffID, date, date).
		Order("created_at DESC").
		First(&ov).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

func (r *SchedulingGormRepository) CreateWorkingHoursOverride(
	ctx context.Context,
	ov *models.WorkingHoursOverride,
) error {
	return r.db.WithContext(ctx).Create(ov).Error
}

func (r *SchedulingGormRepository) DeleteWorkingHoursOverride(
	ctx context.Context,
	salonID uint,
	overrideID uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND staff_id IN (?)",
			overrideID,
			r.db.Model(&models.StaffMember{}).Select("id").Where("salon_id = ?", salonID),
		).
		Delete(&models.WorkingHoursOverride{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SchedulingGormRepository) ListAbsencesForDate(
	ctx context.Context,
	staffID uint,
	date time.Time,
) ([]models.Absence, error) {

	var absences []models.Absence
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND start_date <= ? AND end_date >= ?", staffID, date, date).
		Find(&absences).Error; err != nil {
		return nil, err
	}
	return absences, nil
}

func (r *SchedulingGormRepository) CreateAbsence(
	ctx context.Context,
	ab *models.Absence,
) error {
	return r.db.WithContext(ctx).Create(ab).Error
}

func (r *SchedulingGormRepository) DeleteAbsence(
	ctx context.Context,
	salonID uint,
	absenceID uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND staff_id IN (?)",
			absenceID,
			r.db.Model(&models.StaffMember{}).Select("id").Where("salon_id = ?", salonID),
		).
		Delete(&models.Absence{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *SchedulingGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		SalonID: salonID,
		Name:    name,
		Phone:   phone,
		Email:   email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// --------------------------------------------------
// Appointment (atomic reserve)
// --------------------------------------------------

// ReserveAppointment is the single serialization point of the core. The
// overlap check and the insert run inside one serializable transaction with
// the conflicting rows locked, so a naive read-then-insert race cannot yield
// two appointments on the same staff interval.
func (r *SchedulingGormRepository) ReserveAppointment(
	ctx context.Context,
	ap *models.Appointment,
	services []models.AppointmentService,
) error {

	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return reserveTx(tx, ap, services, now)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return conflictOr(err)
}

// MoveAppointment trades intervals during a reschedule: the old row is
// cancelled and the replacement inserted in one serializable transaction.
// The overlap check runs after the cancellation, so the row being moved no
// longer blocks its own new interval, and a failure on either side rolls the
// booking back to where it was.
func (r *SchedulingGormRepository) MoveAppointment(
	ctx context.Context,
	moved *models.Appointment,
	services []models.AppointmentService,
	old *models.Appointment,
	prevStatus domain.Status,
) error {

	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND salon_id = ? AND status = ?", old.ID, old.SalonID, string(prevStatus)).
			Updates(statusColumns(old))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return reserveTx(tx, moved, services, now)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return conflictOr(err)
}

func reserveTx(tx *gorm.DB, ap *models.Appointment, services []models.AppointmentService, now time.Time) error {
	var count int64
	if err := tx.Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("staff_id = ? AND status IN ? AND starts_at < ? AND ends_at > ?",
			ap.StaffID, blockingStatuses(), ap.EndsAt, ap.StartsAt).
		Where("(status <> ? OR reserved_until IS NULL OR reserved_until >= ?)",
			string(domain.StatusReserved), now).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return domain.ErrSlotConflict
	}

	if err := tx.Create(ap).Error; err != nil {
		return err
	}

	for i := range services {
		services[i].AppointmentID = ap.ID
		services[i].Position = i
	}
	if len(services) > 0 {
		if err := tx.Create(&services).Error; err != nil {
			return err
		}
	}
	return nil
}

// conflictOr maps a serialization failure to the slot conflict sentinel: it
// means a concurrent reservation won the interval between check and commit.
func conflictOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure {
		return domain.ErrSlotConflict
	}
	return err
}

func (r *SchedulingGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) GetAppointmentByHoldToken(
	ctx context.Context,
	salonID uint,
	token uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND hold_token = ?", salonID, token).
		First(&ap).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) ListAppointmentServices(
	ctx context.Context,
	appointmentID uint,
) ([]models.AppointmentService, error) {

	var rows []models.AppointmentService
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateAppointmentStatus persists a transition conditioned on the previous
// status, compare-and-swap style: concurrent transitions on the same row
// leave exactly one winner.
func (r *SchedulingGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	prevStatus domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND salon_id = ? AND status = ?", ap.ID, ap.SalonID, string(prevStatus)).
		Updates(statusColumns(ap))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func statusColumns(ap *models.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"status":          ap.Status,
		"reserved_until":  ap.ReservedUntil,
		"cancelled_at":    ap.CancelledAt,
		"cancelled_by":    ap.CancelledBy,
		"cancel_reason":   ap.CancelReason,
		"completed_at":    ap.CompletedAt,
		"no_show_at":      ap.NoShowAt,
		"deposit_chf":     ap.DepositChf,
		"deposit_status":  ap.DepositStatus,
		"deposit_paid_at": ap.DepositPaidAt,
		"payment_ref":     ap.PaymentRef,
	}
}

func (r *SchedulingGormRepository) ExpireStaleReservations(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("status = ? AND reserved_until < ?", string(domain.StatusReserved), now).
		Updates(map[string]interface{}{
			"status":         string(domain.StatusCancelled),
			"cancelled_at":   now,
			"cancelled_by":   domain.CancelledBySystem,
			"cancel_reason":  domain.CancelReasonExpired,
			"reserved_until": nil,
		})

	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Availability reads
// --------------------------------------------------

func (r *SchedulingGormRepository) ListBlockingAppointments(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "staff_id", "starts_at", "ends_at", "status", "reserved_until").
		Where("staff_id = ? AND status IN ? AND starts_at < ? AND ends_at > ?",
			staffID, blockingStatuses(), to, from).
		Order("starts_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *SchedulingGormRepository) CountSalonBookingsForDay(
	ctx context.Context,
	salonID uint,
	dayStart time.Time,
	dayEnd time.Time,
) (int, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("salon_id = ? AND status IN ? AND starts_at >= ? AND starts_at < ?",
			salonID, blockingStatuses(), dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *SchedulingGormRepository) CountActiveHolds(
	ctx context.Context,
	salonID uint,
	customerID uint,
	now time.Time,
) (int, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("salon_id = ? AND customer_id = ? AND status = ? AND reserved_until >= ?",
			salonID, customerID, string(domain.StatusReserved), now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *SchedulingGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	salonID uint,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Services").
		Where("salon_id = ? AND starts_at >= ? AND starts_at < ?", salonID, dayStart, dayEnd)

	if staffID != 0 {
		q = q.Where("staff_id = ?", staffID)
	}

	var apps []models.Appointment
	if err := q.Order("starts_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
