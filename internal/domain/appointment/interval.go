package appointment

import "time"

// Interval is a half-open [Start, End) range in minutes since midnight,
// salon-local time.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && iv.End > o.Start
}

// Subtract removes busy from iv, yielding zero, one or two remnants.
func (iv Interval) Subtract(busy Interval) []Interval {
	if !iv.Overlaps(busy) {
		return []Interval{iv}
	}

	var out []Interval
	if busy.Start > iv.Start {
		out = append(out, Interval{Start: iv.Start, End: busy.Start})
	}
	if busy.End < iv.End {
		out = append(out, Interval{Start: busy.End, End: iv.End})
	}
	return out
}

// SubtractAll removes every busy interval from the open list. The result is
// disjoint and keeps the time order of the input.
func SubtractAll(open []Interval, busy []Interval) []Interval {
	result := open
	for _, b := range busy {
		var next []Interval
		for _, iv := range result {
			next = append(next, iv.Subtract(b)...)
		}
		result = next
	}

	out := make([]Interval, 0, len(result))
	for _, iv := range result {
		if !iv.Empty() {
			out = append(out, iv)
		}
	}
	return out
}

// MinuteOfDay converts t into minutes since midnight of its own day.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ClipToDay projects [from, to) onto minute-of-day coordinates of the day
// starting at dayStart (midnight, salon tz). Returns false when the range
// does not touch that day at all.
func ClipToDay(from, to, dayStart time.Time) (Interval, bool) {
	dayEnd := dayStart.Add(24 * time.Hour)
	if !from.Before(dayEnd) || !to.After(dayStart) {
		return Interval{}, false
	}

	start := 0
	if from.After(dayStart) {
		start = int(from.Sub(dayStart).Minutes())
	}
	end := 24 * 60
	if to.Before(dayEnd) {
		end = int(to.Sub(dayStart).Minutes())
	}
	return Interval{Start: start, End: end}, true
}
