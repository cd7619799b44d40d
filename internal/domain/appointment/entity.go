package appointment

import (
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================
// Each action validates against the transition table, then mutates the row
// in memory. Persisting the change (conditionally, keyed on the previous
// status) is the repository's job.

const (
	CancelledByCustomer = "customer"
	CancelledByStaff    = "staff"
	CancelledBySystem   = "system"

	CancelReasonExpired = "expired"
)

// Deposit sub-states. A deposit-pending appointment is confirmed but waits
// for the payment collaborator's callback.
const (
	DepositNone    = "none"
	DepositPending = "pending"
	DepositPaid    = "paid"
)

// Confirm moves a live hold forward: to requested when the salon approves
// manually, straight to confirmed otherwise. The hold window is checked
// against now; confirming an expired hold fails with ErrReservationExpired.
func Confirm(ap *models.Appointment, now time.Time, requiresApproval bool) error {
	if Status(ap.Status) != StatusReserved {
		return &InvalidTransitionError{From: Status(ap.Status), To: StatusConfirmed}
	}
	if ap.ReservedUntil == nil || ap.ReservedUntil.Before(now) {
		return ErrReservationExpired
	}

	next := StatusConfirmed
	if requiresApproval {
		next = StatusRequested
	}
	if err := CanTransition(Status(ap.Status), next); err != nil {
		return err
	}

	ap.Status = string(next)
	ap.ReservedUntil = nil
	return nil
}

// Approve finalizes a manually reviewed request.
func Approve(ap *models.Appointment) error {
	if err := CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}
	if Status(ap.Status) != StatusRequested {
		return &InvalidTransitionError{From: Status(ap.Status), To: StatusConfirmed}
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, by, reason string) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}
	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelledBy = by
	ap.CancelReason = reason
	ap.ReservedUntil = nil
	return nil
}

func CheckIn(ap *models.Appointment) error {
	if err := CanTransition(Status(ap.Status), StatusCheckedIn); err != nil {
		return err
	}
	ap.Status = string(StatusCheckedIn)
	return nil
}

func Start(ap *models.Appointment) error {
	if err := CanTransition(Status(ap.Status), StatusInProgress); err != nil {
		return err
	}
	ap.Status = string(StatusInProgress)
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}
	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusNoShow); err != nil {
		return err
	}
	ap.Status = string(StatusNoShow)
	ap.NoShowAt = &now
	ap.ReservedUntil = nil
	return nil
}

// IsLateCancellation reports whether now is inside the salon's cancellation
// cutoff window. The decision whether to apply the no-show policy instead of
// a free cancellation belongs to the caller; it is surfaced, never applied
// silently.
func IsLateCancellation(ap *models.Appointment, now time.Time, cutoffHours int) bool {
	if cutoffHours <= 0 {
		return false
	}
	s := Status(ap.Status)
	if s != StatusConfirmed && s != StatusCheckedIn {
		return false
	}
	return now.After(ap.StartsAt.Add(-time.Duration(cutoffHours) * time.Hour))
}

// SnapshotTotal sums the frozen line-item prices of an appointment.
func SnapshotTotal(rows []models.AppointmentService) float64 {
	var total float64
	for _, row := range rows {
		total += row.SnapshotPriceChf
	}
	return total
}

// FreesInterval reports whether leaving fromStatus makes the appointment's
// interval bookable again, which is what the waitlist cares about. Expired
// holds are swept silently; everything else blocking does free the slot.
func FreesInterval(fromStatus Status) bool {
	return IsBlocking(fromStatus) && fromStatus != StatusReserved
}
