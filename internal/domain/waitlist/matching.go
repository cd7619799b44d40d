package waitlist

import (
	"strconv"
	"strings"
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

const (
	StatusActive    = "active"
	StatusNotified  = "notified"
	StatusExpired   = "expired"
	StatusWithdrawn = "withdrawn"
)

const (
	PrefMorning   = "morning"
	PrefAfternoon = "afternoon"
	PrefAny       = "any"
)

// Noon splits morning from afternoon preferences, salon-local.
const noonMinute = 12 * 60

// FreedSlot describes an interval that just became bookable again.
type FreedSlot struct {
	StaffID    uint
	StartsAt   time.Time
	EndsAt     time.Time
	ServiceIDs []uint
}

// MatchFreedSlot filters active entries against a freed slot. Matches come
// back FIFO by creation time (the repository loads them ordered; no other
// priority signal exists). Entries whose date range already passed are
// returned separately so the caller can flip them to expired.
func MatchFreedSlot(entries []models.WaitlistEntry, slot FreedSlot, now time.Time) (matched, lapsed []models.WaitlistEntry) {
	for _, entry := range entries {
		if entry.Status != StatusActive {
			continue
		}
		if dateBefore(entry.DateTo, now) {
			lapsed = append(lapsed, entry)
			continue
		}
		if matches(entry, slot) {
			matched = append(matched, entry)
		}
	}
	return matched, lapsed
}

// MatchWindow filters active entries whose preferences could be satisfied
// somewhere inside [from, to] for the given staff member (0 = any staff).
// Staff use it to eyeball who is waiting for a stretch of the calendar.
func MatchWindow(entries []models.WaitlistEntry, staffID uint, from, to time.Time) []models.WaitlistEntry {
	var out []models.WaitlistEntry
	for _, entry := range entries {
		if entry.Status != StatusActive {
			continue
		}
		if dateBefore(entry.DateTo, from) || dateBefore(to, entry.DateFrom) {
			continue
		}
		if staffID != 0 && entry.StaffID != nil && *entry.StaffID != staffID {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func matches(entry models.WaitlistEntry, slot FreedSlot) bool {
	if !containsService(slot.ServiceIDs, entry.ServiceID) {
		return false
	}
	if entry.StaffID != nil && *entry.StaffID != slot.StaffID {
		return false
	}
	if dateBefore(slot.StartsAt, entry.DateFrom) || dateBefore(entry.DateTo, slot.StartsAt) {
		return false
	}
	if !weekdayAllowed(entry.Weekdays, slot.StartsAt.Weekday()) {
		return false
	}
	return timePreferenceAllows(entry.TimePreference, slot.StartsAt)
}

func timePreferenceAllows(pref string, start time.Time) bool {
	minute := start.Hour()*60 + start.Minute()
	switch pref {
	case PrefMorning:
		return minute < noonMinute
	case PrefAfternoon:
		return minute >= noonMinute
	default:
		return true
	}
}

// weekdayAllowed parses the comma-separated weekday set. Empty = all days.
func weekdayAllowed(set string, day time.Weekday) bool {
	if strings.TrimSpace(set) == "" {
		return true
	}
	for _, part := range strings.Split(set, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if n == int(day) {
			return true
		}
	}
	return false
}

func containsService(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
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
