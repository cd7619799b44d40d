package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type AvailabilityInput struct {
	SalonID    uint
	ServiceIDs []uint

	// StaffID 0 means "any": results are unioned across eligible staff and
	// each slot is tagged with the staff member offering it.
	StaffID uint

	DateFrom time.Time
	DateTo   time.Time
}

type DayAvailability struct {
	Date  string        `json:"date"`
	Slots []domain.Slot `json:"slots"`
}

// maxRangeDays caps one availability query; longer ranges are paged by the
// caller.
const maxRangeDays = 62

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo domain.Repository
	time TimeProvider
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, time: RealTimeProvider{}}
}

// Execute computes the bookable slots per day for a service set. It is
// read-only and side-effect free; any number of handlers may run it
// concurrently without coordination.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]DayAvailability, error) {

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("no_services_selected")
	}

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	rules, err := uc.repo.GetBookingRules(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.ListServices(ctx, in.SalonID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	staff, err := uc.eligibleStaff(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		// No staff can perform the set at all; the caller surfaces
		// "no availability".
		return []DayAvailability{}, nil
	}

	loc := timezone.Location(salon.Timezone)
	now := uc.time.Now().In(loc)
	earliest, latest := domain.HorizonBounds(*rules, now)

	from := startOfDay(in.DateFrom, loc)
	to := startOfDay(in.DateTo, loc)
	if to.Before(from) || to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	byDay := map[string][]domain.Slot{}

	for _, member := range staff {
		custom, err := uc.repo.GetCustomDurations(ctx, member.ID, in.ServiceIDs)
		if err != nil {
			return nil, err
		}
		total, _, _ := domain.CombineServices(services, custom, rules.DefaultBufferMinutes)

		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			slots, err := uc.staffDaySlots(ctx, member.ID, day, total, *rules, now, earliest, latest)
			if err != nil {
				return nil, err
			}
			if len(slots) > 0 {
				key := day.Format("2006-01-02")
				byDay[key] = append(byDay[key], slots...)
			}
		}
	}

	return sortAvailability(byDay), nil
}

func (uc *GetAvailability) eligibleStaff(
	ctx context.Context,
	in AvailabilityInput,
) ([]models.StaffMember, error) {

	eligible, err := uc.repo.ListEligibleStaff(ctx, in.SalonID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	if in.StaffID == 0 {
		return eligible, nil
	}

	for _, member := range eligible {
		if member.ID == in.StaffID {
			return []models.StaffMember{member}, nil
		}
	}
	return nil, nil
}

func (uc *GetAvailability) staffDaySlots(
	ctx context.Context,
	staffID uint,
	day time.Time,
	totalDurationMin int,
	rules models.BookingRules,
	now, earliest, latest time.Time,
) ([]domain.Slot, error) {

	open, err := uc.openIntervals(ctx, staffID, day)
	if err != nil || len(open) == 0 {
		return nil, err
	}

	dayEnd := day.AddDate(0, 0, 1)
	apps, err := uc.repo.ListBlockingAppointments(ctx, staffID, day, dayEnd)
	if err != nil {
		return nil, err
	}
	busy := domain.BusyIntervals(apps, day, now)

	return domain.ComputeDaySlots(staffID, day, open, busy, domain.SlotParams{
		TotalDurationMin: totalDurationMin,
		GranularityMin:   rules.SlotGranularityMinutes,
		Earliest:         earliest,
		Latest:           latest,
	}), nil
}

func (uc *GetAvailability) openIntervals(
	ctx context.Context,
	staffID uint,
	day time.Time,
) ([]domain.Interval, error) {

	recurring, err := uc.repo.GetWorkingHours(ctx, staffID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	override, err := uc.repo.GetOverrideForDate(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	absences, err := uc.repo.ListAbsencesForDate(ctx, staffID, day)
	if err != nil {
		return nil, err
	}

	return domain.ResolveOpenIntervals(domain.DaySchedule{
		Recurring: recurring,
		Override:  override,
		Absences:  absences,
	}, day), nil
}

func sortAvailability(byDay map[string][]domain.Slot) []DayAvailability {
	out := make([]DayAvailability, 0, len(byDay))
	for date, slots := range byDay {
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].StartsAt.Equal(slots[j].StartsAt) {
				return slots[i].StaffID < slots[j].StaffID
			}
			return slots[i].StartsAt.Before(slots[j].StartsAt)
		})
		out = append(out, DayAvailability{Date: date, Slots: slots})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
