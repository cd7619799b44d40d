package appointment

import (
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// DaySchedule is everything the resolver needs for one staff member on one
// date. The repository loads the rows; resolution itself is pure.
type DaySchedule struct {
	Recurring *models.WorkingHours
	Override  *models.WorkingHoursOverride
	Absences  []models.Absence
}

// ResolveOpenIntervals computes the effective open intervals for a date:
// recurring weekly hours, replaced (not merged) by a dated override when one
// covers the date, minus any absence. Returns a disjoint, time-ordered list;
// empty when the staff member does not work that day.
func ResolveOpenIntervals(day DaySchedule, date time.Time) []Interval {
	var open []Interval

	switch {
	case day.Override != nil:
		if day.Override.Closed {
			return nil
		}
		open = openFromTimes(
			day.Override.StartTime, day.Override.EndTime,
			day.Override.BreakStart, day.Override.BreakEnd,
		)
	case day.Recurring != nil && day.Recurring.Active:
		open = openFromTimes(
			day.Recurring.StartTime, day.Recurring.EndTime,
			day.Recurring.BreakStart, day.Recurring.BreakEnd,
		)
	}

	if len(open) == 0 {
		return nil
	}

	var busy []Interval
	for _, ab := range day.Absences {
		if iv, ok := absenceInterval(ab, date); ok {
			busy = append(busy, iv)
		}
	}

	return SubtractAll(open, busy)
}

func openFromTimes(start, end, breakStart, breakEnd string) []Interval {
	s, okS := parseHM(start)
	e, okE := parseHM(end)
	if !okS || !okE || e <= s {
		return nil
	}

	day := []Interval{{Start: s, End: e}}

	bs, okBS := parseHM(breakStart)
	be, okBE := parseHM(breakEnd)
	if okBS && okBE && be > bs {
		day = SubtractAll(day, []Interval{{Start: bs, End: be}})
	}
	return day
}

// absenceInterval maps an absence onto the given date. A full-day absence
// blocks the whole day; a time-of-day sub-range applies on every covered day.
func absenceInterval(ab models.Absence, date time.Time) (Interval, bool) {
	if dateBefore(date, ab.StartDate) || dateBefore(ab.EndDate, date) {
		return Interval{}, false
	}

	s, okS := parseHM(ab.StartTime)
	e, okE := parseHM(ab.EndTime)
	if okS && okE && e > s {
		return Interval{Start: s, End: e}, true
	}
	return Interval{Start: 0, End: 24 * 60}, true
}

func parseHM(hm string) (int, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// OverrideCovers reports whether the override's validity range includes date.
func OverrideCovers(ov models.WorkingHoursOverride, date time.Time) bool {
	return !dateBefore(date, ov.StartDate) && !dateBefore(ov.EndDate, date)
}
