package appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotConflict means another reservation occupies the interval. The
	// caller should re-query availability; never retried silently.
	ErrSlotConflict = errors.New("slot_conflict")

	// ErrReservationExpired means confirm was attempted after reservedUntil.
	ErrReservationExpired = errors.New("reservation_expired")

	// ErrCrossTenant is returned whenever an entity is referenced from a
	// different salon. Always fatal to the request.
	ErrCrossTenant = errors.New("cross_tenant_reference")

	ErrNotFound = errors.New("not_found")
)

// PolicyKind identifies the exact booking policy a request violated, so the
// caller can render a precise message instead of a generic failure.
type PolicyKind string

const (
	PolicyLeadTime            PolicyKind = "lead_time"
	PolicyHorizon             PolicyKind = "horizon"
	PolicyMaxBookingsPerDay   PolicyKind = "max_bookings_per_day"
	PolicyMaxConcurrentHolds  PolicyKind = "max_concurrent_reservations"
	PolicyDepositInconsistent PolicyKind = "deposit_inconsistent"
)

type PolicyViolation struct {
	Kind PolicyKind
}

func (e *PolicyViolation) Error() string {
	return "policy_violation:" + string(e.Kind)
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid_transition:%s->%s", e.From, e.To)
}

// EnsureTenant rejects cross-salon references. Every usecase calls it after
// loading an entity; tenant scope is an explicit parameter, never ambient.
func EnsureTenant(salonID, entitySalonID uint) error {
	if salonID != entitySalonID {
		return ErrCrossTenant
	}
	return nil
}
