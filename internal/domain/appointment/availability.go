package appointment

import (
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// Slot is a candidate appointment start that fits the requested services
// plus buffers inside one free sub-interval of a staff member's day.
type Slot struct {
	StaffID  uint      `json:"staff_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type SlotParams struct {
	TotalDurationMin int
	GranularityMin   int

	// Earliest/Latest are the lead-time and horizon bounds, half-open:
	// candidates starting before Earliest or at/after Latest are discarded.
	Earliest time.Time
	Latest   time.Time
}

// ComputeDaySlots generates the bookable slots of one staff member for the
// day starting at dayStart (midnight, salon tz). open comes from
// ResolveOpenIntervals; busy holds the blocking appointment intervals of that
// day in minute-of-day coordinates, buffers included.
func ComputeDaySlots(staffID uint, dayStart time.Time, open, busy []Interval, p SlotParams) []Slot {
	if p.TotalDurationMin <= 0 || p.GranularityMin <= 0 {
		return nil
	}

	free := SubtractAll(open, busy)

	var slots []Slot
	for _, iv := range free {
		for cand := iv.Start; cand+p.TotalDurationMin <= iv.End; cand += p.GranularityMin {
			start := dayStart.Add(time.Duration(cand) * time.Minute)
			if start.Before(p.Earliest) || !start.Before(p.Latest) {
				continue
			}
			slots = append(slots, Slot{
				StaffID:  staffID,
				StartsAt: start,
				EndsAt:   start.Add(time.Duration(p.TotalDurationMin) * time.Minute),
			})
		}
	}
	return slots
}

// BusyIntervals maps the blocking appointments of a day onto minute-of-day
// intervals. Stored appointment intervals already include their buffers
// (sum of service durations + buffers = EndsAt - StartsAt). A reserved row
// whose hold expired before now never blocks, even before the sweep runs.
func BusyIntervals(apps []models.Appointment, dayStart, now time.Time) []Interval {
	var busy []Interval
	for _, ap := range apps {
		if !IsBlocking(Status(ap.Status)) {
			continue
		}
		if Status(ap.Status) == StatusReserved &&
			ap.ReservedUntil != nil && ap.ReservedUntil.Before(now) {
			continue
		}
		if iv, ok := ClipToDay(ap.StartsAt, ap.EndsAt, dayStart); ok {
			busy = append(busy, iv)
		}
	}
	return busy
}

// CombineServices resolves the total bookable span of a service set for one
// staff member. customDur carries per-skill duration overrides keyed by
// service ID. Buffers take the maximum each side declares; when no service
// declares any, defaultBufferMin is applied as trailing cleanup time.
func CombineServices(svcs []models.Service, customDur map[uint]int, defaultBufferMin int) (total, before, after int) {
	for _, svc := range svcs {
		dur := svc.DurationMin
		if custom, ok := customDur[svc.ID]; ok && custom > 0 {
			dur = custom
		}
		total += dur

		if svc.BufferBeforeMin > before {
			before = svc.BufferBeforeMin
		}
		if svc.BufferAfterMin > after {
			after = svc.BufferAfterMin
		}
	}

	if before == 0 && after == 0 {
		after = defaultBufferMin
	}

	total += before + after
	return total, before, after
}

// AnyRequiresDeposit reports whether at least one selected service asks for
// a deposit at confirmation time.
func AnyRequiresDeposit(svcs []models.Service) bool {
	for _, svc := range svcs {
		if svc.RequiresDeposit {
			return true
		}
	}
	return false
}
