package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

func TestApproveAppointment(t *testing.T) {
	repo := newFakeRepo()
	notifier := &captureNotifier{}
	ap := seedHold(t, repo, func(ap *models.Appointment) {
		ap.Status = string(domain.StatusRequested)
		ap.ReservedUntil = nil
	})
	uc := NewApproveAppointment(repo, audit.Discard(), notifier)

	approved, err := uc.Execute(context.Background(), 1, 7, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), approved.Status)
	assert.Equal(t, []uint{ap.ID}, notifier.confirmed)

	t.Run("already confirmed", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), 1, 7, ap.ID)
		var ite *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &ite)
	})
}

func TestTransitionAppointmentWalksForward(t *testing.T) {
	repo := newFakeRepo()
	ap := seedHold(t, repo, confirmed)
	uc := NewTransitionAppointment(repo, audit.Discard())
	uc.time = fixedClock{fakeNow}

	for _, step := range []struct {
		kind TransitionKind
		want domain.Status
	}{
		{TransitionCheckIn, domain.StatusCheckedIn},
		{TransitionStart, domain.StatusInProgress},
		{TransitionComplete, domain.StatusCompleted},
	} {
		got, err := uc.Execute(context.Background(), 1, 7, ap.ID, step.kind)
		require.NoError(t, err)
		assert.Equal(t, string(step.want), got.Status)
	}

	final, _ := repo.GetAppointment(context.Background(), 1, ap.ID)
	require.NotNil(t, final.CompletedAt)
}

func TestTransitionAppointmentRejectsSkips(t *testing.T) {
	repo := newFakeRepo()
	ap := seedHold(t, repo, confirmed)
	uc := NewTransitionAppointment(repo, audit.Discard())
	uc.time = fixedClock{fakeNow}

	_, err := uc.Execute(context.Background(), 1, 7, ap.ID, TransitionComplete)
	var ite *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
}

func TestMarkNoShowChargesDeposit(t *testing.T) {
	repo := newFakeRepo()
	repo.rules.NoShowPolicy = NoShowPolicyChargeDeposit
	charger := &captureCharger{}
	ap := seedHold(t, repo, func(ap *models.Appointment) {
		confirmed(ap)
		ap.DepositChf = 16
	})
	uc := NewMarkNoShow(repo, audit.Discard(), charger)
	uc.time = fixedClock{fakeNow}

	res, err := uc.Execute(context.Background(), 1, 7, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), res.Appointment.Status)
	assert.True(t, res.ChargeAttempted)
	assert.False(t, res.ChargeFailed)
	assert.Equal(t, 16.0, res.ChargedChf)
	assert.Equal(t, []float64{16}, charger.charged)
}

func TestMarkNoShowChargesFullSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.rules.NoShowPolicy = NoShowPolicyChargeFull
	charger := &captureCharger{}
	ap := seedHold(t, repo, confirmed)
	uc := NewMarkNoShow(repo, audit.Discard(), charger)
	uc.time = fixedClock{fakeNow}

	res, err := uc.Execute(context.Background(), 1, 7, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, res.ChargedChf)
}

func TestMarkNoShowChargeFailureIsSurfaced(t *testing.T) {
	repo := newFakeRepo()
	repo.rules.NoShowPolicy = NoShowPolicyChargeDeposit
	ap := seedHold(t, repo, func(ap *models.Appointment) {
		confirmed(ap)
		ap.DepositChf = 16
	})
	uc := NewMarkNoShow(repo, audit.Discard(), &captureCharger{fail: true})
	uc.time = fixedClock{fakeNow}

	res, err := uc.Execute(context.Background(), 1, 7, ap.ID)
	require.NoError(t, err)
	assert.True(t, res.ChargeAttempted)
	assert.True(t, res.ChargeFailed)
	// The status change stands even when the charge fails.
	assert.Equal(t, string(domain.StatusNoShow), res.Appointment.Status)
}

func TestMarkNoShowPolicyNone(t *testing.T) {
	repo := newFakeRepo()
	charger := &captureCharger{}
	ap := seedHold(t, repo, confirmed)
	uc := NewMarkNoShow(repo, audit.Discard(), charger)
	uc.time = fixedClock{fakeNow}

	res, err := uc.Execute(context.Background(), 1, 7, ap.ID)
	require.NoError(t, err)
	assert.False(t, res.ChargeAttempted)
	assert.Empty(t, charger.charged)
}

func TestAbandonHold(t *testing.T) {
	repo := newFakeRepo()
	ap := seedHold(t, repo)
	uc := NewAbandonHold(repo, audit.Discard())
	uc.time = fixedClock{fakeNow}

	got, err := uc.Execute(context.Background(), 1, ap.HoldToken)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.Equal(t, "abandoned", got.CancelReason)

	t.Run("only a live hold can be abandoned", func(t *testing.T) {
		booked := seedHold(t, repo, func(ap *models.Appointment) {
			confirmed(ap)
			ap.StartsAt = ap.StartsAt.Add(3 * time.Hour)
			ap.EndsAt = ap.EndsAt.Add(3 * time.Hour)
		})
		_, err := uc.Execute(context.Background(), 1, booked.HoldToken)
		var ite *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &ite)
	})
}
