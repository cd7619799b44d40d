package waitlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

var (
	testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	// Thursday afternoon.
	testSlot = FreedSlot{
		StaffID:    2,
		StartsAt:   time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 9, 3, 15, 0, 0, 0, time.UTC),
		ServiceIDs: []uint{10},
	}
)

func entry(id uint, mutate ...func(*models.WaitlistEntry)) models.WaitlistEntry {
	e := models.WaitlistEntry{
		ID:             id,
		ServiceID:      10,
		DateFrom:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DateTo:         time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TimePreference: PrefAny,
		Status:         StatusActive,
	}
	for _, m := range mutate {
		m(&e)
	}
	return e
}

func TestMatchFreedSlot(t *testing.T) {
	t.Run("morning preference does not match an afternoon slot", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) { e.TimePreference = PrefMorning }),
			entry(2, func(e *models.WaitlistEntry) { e.TimePreference = PrefAfternoon }),
			entry(3),
		}
		matched, lapsed := MatchFreedSlot(entries, testSlot, testNow)
		require.Len(t, matched, 2)
		assert.Equal(t, uint(2), matched[0].ID)
		assert.Equal(t, uint(3), matched[1].ID)
		assert.Empty(t, lapsed)
	})

	t.Run("morning preference matches a morning slot", func(t *testing.T) {
		slot := testSlot
		slot.StartsAt = time.Date(2026, 9, 3, 9, 30, 0, 0, time.UTC)
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) { e.TimePreference = PrefMorning }),
		}
		matched, _ := MatchFreedSlot(entries, slot, testNow)
		assert.Len(t, matched, 1)
	})

	t.Run("noon counts as afternoon", func(t *testing.T) {
		slot := testSlot
		slot.StartsAt = time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC)
		morning := entry(1, func(e *models.WaitlistEntry) { e.TimePreference = PrefMorning })
		afternoon := entry(2, func(e *models.WaitlistEntry) { e.TimePreference = PrefAfternoon })

		matched, _ := MatchFreedSlot([]models.WaitlistEntry{morning, afternoon}, slot, testNow)
		require.Len(t, matched, 1)
		assert.Equal(t, uint(2), matched[0].ID)
	})

	t.Run("service must be part of the freed slot", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) { e.ServiceID = 99 }),
		}
		matched, _ := MatchFreedSlot(entries, testSlot, testNow)
		assert.Empty(t, matched)
	})

	t.Run("staff preference filters, nil means any", func(t *testing.T) {
		other := uint(7)
		want := uint(2)
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) { e.StaffID = &other }),
			entry(2, func(e *models.WaitlistEntry) { e.StaffID = &want }),
			entry(3),
		}
		matched, _ := MatchFreedSlot(entries, testSlot, testNow)
		require.Len(t, matched, 2)
		assert.Equal(t, uint(2), matched[0].ID)
		assert.Equal(t, uint(3), matched[1].ID)
	})

	t.Run("slot outside the entry's date range", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) {
				e.DateFrom = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
			}),
			entry(2, func(e *models.WaitlistEntry) {
				e.DateTo = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
			}),
		}
		matched, _ := MatchFreedSlot(entries, testSlot, testNow)
		assert.Empty(t, matched)
	})

	t.Run("slot on the date range boundary still matches", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) {
				e.DateFrom = time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
				e.DateTo = time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
			}),
		}
		matched, _ := MatchFreedSlot(entries, testSlot, testNow)
		assert.Len(t, matched, 1)
	})

	t.Run("weekday set filters, empty means all", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) { e.Weekdays = "1,2" }), // Mon, Tue
			entry(2, func(e *models.WaitlistEntry) { e.Weekdays = "4" }),   // Thu
			entry(3, func(e *models.WaitlistEntry) { e.Weekdays = "" }),
		}
		matched, _ := MatchFreedSlot(entries, testSlot, testNow)
		require.Len(t, matched, 2)
		assert.Equal(t, uint(2), matched[0].ID)
		assert.Equal(t, uint(3), matched[1].ID)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		entries := []models.WaitlistEntry{entry(3), entry(1), entry(2)}
		matched, _ := MatchFreedSlot(entries, testSlot, testNow)
		require.Len(t, matched, 3)
		assert.Equal(t, uint(3), matched[0].ID)
		assert.Equal(t, uint(1), matched[1].ID)
		assert.Equal(t, uint(2), matched[2].ID)
	})

	t.Run("entries past their window come back as lapsed", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) {
				e.DateTo = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
			}),
			entry(2),
		}
		matched, lapsed := MatchFreedSlot(entries, testSlot, testNow)
		require.Len(t, lapsed, 1)
		assert.Equal(t, uint(1), lapsed[0].ID)
		require.Len(t, matched, 1)
		assert.Equal(t, uint(2), matched[0].ID)
	})

	t.Run("non-active entries are skipped entirely", func(t *testing.T) {
		entries := []models.WaitlistEntry{
			entry(1, func(e *models.WaitlistEntry) { e.Status = StatusNotified }),
			entry(2, func(e *models.WaitlistEntry) { e.Status = StatusWithdrawn }),
			entry(3, func(e *models.WaitlistEntry) {
				e.Status = StatusExpired
				e.DateTo = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			}),
		}
		matched, lapsed := MatchFreedSlot(entries, testSlot, testNow)
		assert.Empty(t, matched)
		assert.Empty(t, lapsed)
	})
}

func TestMatchWindow(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	staff := uint(2)
	other := uint(9)
	entries := []models.WaitlistEntry{
		entry(1),
		entry(2, func(e *models.WaitlistEntry) { e.StaffID = &staff }),
		entry(3, func(e *models.WaitlistEntry) { e.StaffID = &other }),
		entry(4, func(e *models.WaitlistEntry) {
			e.DateFrom = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
			e.DateTo = time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
		}),
		entry(5, func(e *models.WaitlistEntry) { e.Status = StatusNotified }),
	}

	t.Run("filters by staff and overlap", func(t *testing.T) {
		out := MatchWindow(entries, staff, from, to)
		require.Len(t, out, 2)
		assert.Equal(t, uint(1), out[0].ID)
		assert.Equal(t, uint(2), out[1].ID)
	})

	t.Run("zero staff id matches everyone waiting in the window", func(t *testing.T) {
		out := MatchWindow(entries, 0, from, to)
		require.Len(t, out, 3)
	})
}
