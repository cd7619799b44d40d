package appointment

import (
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// BookingCheck carries the request-scoped facts the rules engine needs. The
// caller loads the counts; validation itself is pure.
type BookingCheck struct {
	StartsAt time.Time

	// SalonDayBookings counts blocking appointments already on the salon's
	// calendar for the requested day.
	SalonDayBookings int

	// CustomerActiveHolds counts this customer's unexpired reserved rows.
	CustomerActiveHolds int

	// RequiresDeposit is true when any selected service asks for a deposit.
	RequiresDeposit bool
}

// ValidateBooking runs the salon policy checks in order, short-circuiting on
// the first failure. It never clamps or auto-corrects a request; nil means
// the request passed every configured rule.
func ValidateBooking(rules models.BookingRules, check BookingCheck, now time.Time) *PolicyViolation {
	// A zero lead time still rejects starts in the past.
	earliest := now.Add(time.Duration(rules.MinLeadTimeMinutes) * time.Minute)
	if check.StartsAt.Before(earliest) {
		return &PolicyViolation{Kind: PolicyLeadTime}
	}

	if rules.MaxBookingHorizonDays > 0 {
		if !check.StartsAt.Before(horizonEnd(rules, now)) {
			return &PolicyViolation{Kind: PolicyHorizon}
		}
	}

	if rules.MaxBookingsPerDay > 0 && check.SalonDayBookings >= rules.MaxBookingsPerDay {
		return &PolicyViolation{Kind: PolicyMaxBookingsPerDay}
	}

	if rules.MaxConcurrentReservationsPerClient > 0 &&
		check.CustomerActiveHolds >= rules.MaxConcurrentReservationsPerClient {
		return &PolicyViolation{Kind: PolicyMaxConcurrentHolds}
	}

	if check.RequiresDeposit && rules.DepositRequiredPercent <= 0 {
		return &PolicyViolation{Kind: PolicyDepositInconsistent}
	}

	return nil
}

// HorizonBounds returns the [earliest, end) window availability may offer.
// The whole of day now+maxBookingHorizonDays is bookable; end is the first
// instant past it.
func HorizonBounds(rules models.BookingRules, now time.Time) (time.Time, time.Time) {
	earliest := now.Add(time.Duration(rules.MinLeadTimeMinutes) * time.Minute)
	return earliest, horizonEnd(rules, now)
}

func horizonEnd(rules models.BookingRules, now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, rules.MaxBookingHorizonDays+1)
}

// DepositAmount computes the deposit owed for a snapshot total under the
// salon's policy. Zero when no deposit is configured.
func DepositAmount(rules models.BookingRules, totalChf float64) float64 {
	if rules.DepositRequiredPercent <= 0 {
		return 0
	}
	return totalChf * float64(rules.DepositRequiredPercent) / 100
}
