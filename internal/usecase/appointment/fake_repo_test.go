package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// fakeNow pins the repository clock so hold-expiry comparisons do not race
// the wall clock.
var fakeNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory Repository. One mutex guards every method, so the
// concurrency tests get the same winner-takes-all contract the serializable
// transaction gives in production.
type fakeRepo struct {
	mu sync.Mutex

	salon *models.Salon
	rules *models.BookingRules

	services map[uint]models.Service
	staff    map[uint]models.StaffMember
	skills   map[uint][]uint
	custom   map[uint]map[uint]int

	hours     []models.WorkingHours
	overrides []models.WorkingHoursOverride
	absences  []models.Absence

	customers    []models.Customer
	appointments map[uint]*models.Appointment
	snapshots    map[uint][]models.AppointmentService

	nextID uint
}

// newFakeRepo seeds a one-salon world: staff 2 works 09:00-18:00 every day
// and performs service 10 (60 minutes, 80 CHF).
func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		salon: &models.Salon{
			ID: 1, Name: "Demo", Slug: "demo", Timezone: "UTC", Active: true,
		},
		rules: &models.BookingRules{
			SalonID:                            1,
			MinLeadTimeMinutes:                 120,
			MaxBookingHorizonDays:              90,
			SlotGranularityMinutes:             15,
			ReservationTimeoutMinutes:          15,
			CancellationCutoffHours:            24,
			MaxConcurrentReservationsPerClient: 1,
		},
		services: map[uint]models.Service{
			10: {ID: 10, SalonID: 1, Name: "Cut", DurationMin: 60, PriceChf: 80, Active: true},
		},
		staff: map[uint]models.StaffMember{
			2: {ID: 2, SalonID: 1, Name: "Dana", Active: true},
		},
		skills:       map[uint][]uint{2: {10}},
		custom:       map[uint]map[uint]int{},
		appointments: map[uint]*models.Appointment{},
		snapshots:    map[uint][]models.AppointmentService{},
		nextID:       100,
	}
	for wd := 0; wd < 7; wd++ {
		r.hours = append(r.hours, models.WorkingHours{
			StaffID: 2, Weekday: wd, StartTime: "09:00", EndTime: "18:00", Active: true,
		})
	}
	return r
}

func (r *fakeRepo) id() uint {
	r.nextID++
	return r.nextID
}

// -------- Salon / policy --------

func (r *fakeRepo) GetSalonByID(ctx context.Context, id uint) (*models.Salon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.salon == nil || r.salon.ID != id {
		return nil, domain.ErrNotFound
	}
	s := *r.salon
	return &s, nil
}

func (r *fakeRepo) GetSalonBySlug(ctx context.Context, slug string) (*models.Salon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.salon == nil || r.salon.Slug != slug {
		return nil, domain.ErrNotFound
	}
	s := *r.salon
	return &s, nil
}

func (r *fakeRepo) GetBookingRules(ctx context.Context, salonID uint) (*models.BookingRules, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rules := *r.rules
	return &rules, nil
}

func (r *fakeRepo) SaveBookingRules(ctx context.Context, rules *models.BookingRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rules
	r.rules = &cp
	return nil
}

// -------- Catalog --------

func (r *fakeRepo) ListServices(ctx context.Context, salonID uint, serviceIDs []uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, id := range serviceIDs {
		if svc, ok := r.services[id]; ok && svc.SalonID == salonID {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListActiveServices(ctx context.Context, salonID uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, svc := range r.services {
		if svc.SalonID == salonID && svc.Active {
			out = append(out, svc)
		}
	}
	return out, nil
}

// -------- Staff / skills --------

func (r *fakeRepo) GetStaff(ctx context.Context, salonID, staffID uint) (*models.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.staff[staffID]
	if !ok || member.SalonID != salonID {
		return nil, domain.ErrNotFound
	}
	return &member, nil
}

func (r *fakeRepo) ListEligibleStaff(ctx context.Context, salonID uint, serviceIDs []uint) ([]models.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StaffMember
	for id, member := range r.staff {
		if member.SalonID != salonID || !member.Active {
			continue
		}
		if coversAll(r.skills[id], serviceIDs) {
			out = append(out, member)
		}
	}
	return out, nil
}

func coversAll(skills, wanted []uint) bool {
	for _, w := range wanted {
		found := false
		for _, s := range skills {
			if s == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeRepo) GetCustomDurations(ctx context.Context, staffID uint, serviceIDs []uint) (map[uint]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uint]int{}
	for svc, dur := range r.custom[staffID] {
		out[svc] = dur
	}
	return out, nil
}

// -------- Working hours / absences --------

func (r *fakeRepo) GetWorkingHours(ctx context.Context, staffID uint, weekday int) (*models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.hours {
		if r.hours[i].StaffID == staffID && r.hours[i].Weekday == weekday {
			wh := r.hours[i]
			return &wh, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListWorkingHours(ctx context.Context, staffID uint) ([]models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WorkingHours
	for _, wh := range r.hours {
		if wh.StaffID == staffID {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (r *fakeRepo) ReplaceWorkingHours(ctx context.Context, staffID uint, hours []models.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.hours[:0]
	for _, wh := range r.hours {
		if wh.StaffID != staffID {
			kept = append(kept, wh)
		}
	}
	r.hours = append(kept, hours...)
	return nil
}

func (r *fakeRepo) GetOverrideForDate(ctx context.Context, staffID uint, date time.Time) (*models.WorkingHoursOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.overrides {
		ov := r.overrides[i]
		if ov.StaffID == staffID && !date.Before(ov.StartDate) && !date.After(ov.EndDate) {
			return &ov, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CreateWorkingHoursOverride(ctx context.Context, ov *models.WorkingHoursOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ov.ID = r.id()
	r.overrides = append(r.overrides, *ov)
	return nil
}

func (r *fakeRepo) DeleteWorkingHoursOverride(ctx context.Context, salonID, overrideID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ov := range r.overrides {
		if ov.ID == overrideID {
			r.overrides = append(r.overrides[:i], r.overrides[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) ListAbsencesForDate(ctx context.Context, staffID uint, date time.Time) ([]models.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Absence
	for _, ab := range r.absences {
		if ab.StaffID == staffID && !date.Before(ab.StartDate) && !date.After(ab.EndDate) {
			out = append(out, ab)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAbsence(ctx context.Context, ab *models.Absence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ab.ID = r.id()
	r.absences = append(r.absences, *ab)
	return nil
}

func (r *fakeRepo) DeleteAbsence(ctx context.Context, salonID, absenceID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ab := range r.absences {
		if ab.ID == absenceID {
			r.absences = append(r.absences[:i], r.absences[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// -------- Customer --------

func (r *fakeRepo) GetOrCreateCustomer(ctx context.Context, salonID uint, name, phone, email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		c := r.customers[i]
		if c.SalonID == salonID && c.Phone == phone && phone != "" {
			return &c, nil
		}
	}
	c := models.Customer{ID: r.id(), SalonID: salonID, Name: name, Phone: phone, Email: email}
	r.customers = append(r.customers, c)
	return &c, nil
}

// -------- Appointment --------

func (r *fakeRepo) ReserveAppointment(ctx context.Context, ap *models.Appointment, services []models.AppointmentService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserveLocked(ap, services, 0)
}

func (r *fakeRepo) MoveAppointment(ctx context.Context, moved *models.Appointment, services []models.AppointmentService, old *models.Appointment, prevStatus domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[old.ID]
	if !ok || stored.SalonID != old.SalonID || stored.Status != string(prevStatus) {
		return domain.ErrNotFound
	}
	// The row being moved does not block its replacement interval; a
	// conflict leaves it untouched.
	if err := r.reserveLocked(moved, services, old.ID); err != nil {
		return err
	}
	cp := *old
	r.appointments[old.ID] = &cp
	return nil
}

func (r *fakeRepo) reserveLocked(ap *models.Appointment, services []models.AppointmentService, excludeID uint) error {
	now := fakeNow
	for _, other := range r.appointments {
		if other.ID == excludeID || other.StaffID != ap.StaffID {
			continue
		}
		if !domain.IsBlocking(domain.Status(other.Status)) {
			continue
		}
		if domain.Status(other.Status) == domain.StatusReserved &&
			other.ReservedUntil != nil && other.ReservedUntil.Before(now) {
			continue
		}
		if other.StartsAt.Before(ap.EndsAt) && other.EndsAt.After(ap.StartsAt) {
			return domain.ErrSlotConflict
		}
	}

	ap.ID = r.id()
	cp := *ap
	r.appointments[ap.ID] = &cp
	for i := range services {
		services[i].AppointmentID = ap.ID
		services[i].Position = i
	}
	r.snapshots[ap.ID] = append([]models.AppointmentService(nil), services...)
	return nil
}

func (r *fakeRepo) GetAppointment(ctx context.Context, salonID, appointmentID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.SalonID != salonID {
		return nil, domain.ErrNotFound
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) GetAppointmentByHoldToken(ctx context.Context, salonID uint, token uuid.UUID) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.SalonID == salonID && ap.HoldToken == token {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ListAppointmentServices(ctx context.Context, appointmentID uint) ([]models.AppointmentService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AppointmentService(nil), r.snapshots[appointmentID]...), nil
}

func (r *fakeRepo) UpdateAppointmentStatus(ctx context.Context, ap *models.Appointment, prevStatus domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appointments[ap.ID]
	if !ok || stored.SalonID != ap.SalonID || stored.Status != string(prevStatus) {
		return domain.ErrNotFound
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) ExpireStaleReservations(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, ap := range r.appointments {
		if ap.Status != string(domain.StatusReserved) {
			continue
		}
		if ap.ReservedUntil == nil || !ap.ReservedUntil.Before(now) {
			continue
		}
		t := now
		ap.Status = string(domain.StatusCancelled)
		ap.CancelledAt = &t
		ap.CancelledBy = domain.CancelledBySystem
		ap.CancelReason = domain.CancelReasonExpired
		ap.ReservedUntil = nil
		n++
	}
	return n, nil
}

// -------- Availability reads --------

func (r *fakeRepo) ListBlockingAppointments(ctx context.Context, staffID uint, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.StaffID != staffID || !domain.IsBlocking(domain.Status(ap.Status)) {
			continue
		}
		if ap.StartsAt.Before(to) && ap.EndsAt.After(from) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountSalonBookingsForDay(ctx context.Context, salonID uint, dayStart, dayEnd time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ap := range r.appointments {
		if ap.SalonID != salonID || !domain.IsBlocking(domain.Status(ap.Status)) {
			continue
		}
		if !ap.StartsAt.Before(dayStart) && ap.StartsAt.Before(dayEnd) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountActiveHolds(ctx context.Context, salonID, customerID uint, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ap := range r.appointments {
		if ap.SalonID != salonID || ap.CustomerID != customerID {
			continue
		}
		if ap.Status == string(domain.StatusReserved) &&
			ap.ReservedUntil != nil && !ap.ReservedUntil.Before(now) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) ListAppointmentsForDay(ctx context.Context, salonID, staffID uint, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.SalonID != salonID {
			continue
		}
		if staffID != 0 && ap.StaffID != staffID {
			continue
		}
		if !ap.StartsAt.Before(dayStart) && ap.StartsAt.Before(dayEnd) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
