package appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

func newReserveUC(repo *fakeRepo) *Reserve {
	uc := NewReserve(repo, audit.Discard())
	uc.time = fixedClock{fakeNow}
	return uc
}

func reserveInput(phone string, starts time.Time) ReserveInput {
	return ReserveInput{
		SalonID:       1,
		StaffID:       2,
		ServiceIDs:    []uint{10},
		StartsAt:      starts,
		CustomerName:  "Ana",
		CustomerPhone: phone,
	}
}

func TestReserveCreatesTimeBoxedHold(t *testing.T) {
	repo := newFakeRepo()
	uc := newReserveUC(repo)

	starts := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	ap, err := uc.Execute(context.Background(), reserveInput("+41790000001", starts))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusReserved), ap.Status)
	assert.True(t, ap.StartsAt.Equal(starts))
	assert.True(t, ap.EndsAt.Equal(starts.Add(60*time.Minute)))
	require.NotNil(t, ap.ReservedUntil)
	assert.True(t, ap.ReservedUntil.Equal(fakeNow.Add(15*time.Minute)))
	assert.NotEqual(t, uuid.Nil, ap.HoldToken)
	assert.Equal(t, domain.DepositNone, ap.DepositStatus)
	assert.Zero(t, ap.DepositChf)

	rows, err := repo.ListAppointmentServices(context.Background(), ap.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cut", rows[0].SnapshotName)
	assert.Equal(t, 80.0, rows[0].SnapshotPriceChf)
	assert.Equal(t, 60, rows[0].SnapshotDurationMin)
}

// Snapshot rows keep the price and duration agreed at booking time even when
// the catalog changes afterwards.
func TestReserveSnapshotSurvivesCatalogChange(t *testing.T) {
	repo := newFakeRepo()
	uc := newReserveUC(repo)

	starts := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	ap, err := uc.Execute(context.Background(), reserveInput("+41790000001", starts))
	require.NoError(t, err)

	svc := repo.services[10]
	svc.Name = "Cut Deluxe"
	svc.PriceChf = 120
	svc.DurationMin = 90
	repo.services[10] = svc

	rows, err := repo.ListAppointmentServices(context.Background(), ap.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cut", rows[0].SnapshotName)
	assert.Equal(t, 80.0, rows[0].SnapshotPriceChf)
	assert.Equal(t, 60, rows[0].SnapshotDurationMin)
	assert.Equal(t, 80.0, domain.SnapshotTotal(rows))
}

func TestReserveRaceHasExactlyOneWinner(t *testing.T) {
	repo := newFakeRepo()
	uc := newReserveUC(repo)

	starts := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			phone := fmt.Sprintf("+41790%06d", i+1)
			_, errs[i] = uc.Execute(context.Background(), reserveInput(phone, starts))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch err {
		case nil:
			wins++
		case domain.ErrSlotConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, repo.appointments, 1)
}

func TestReservePolicyViolationLeavesNoRow(t *testing.T) {
	repo := newFakeRepo()
	uc := newReserveUC(repo)

	// 30 minutes out, lead time is 120.
	_, err := uc.Execute(context.Background(), reserveInput("+41790000001", fakeNow.Add(30*time.Minute)))

	var v *domain.PolicyViolation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, domain.PolicyLeadTime, v.Kind)
	assert.Empty(t, repo.appointments)
}

func TestReserveOutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	uc := newReserveUC(repo)

	// 17:30 + 60 minutes runs past the 18:00 close.
	starts := time.Date(2026, 9, 2, 17, 30, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), reserveInput("+41790000001", starts))
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
	assert.Empty(t, repo.appointments)
}

func TestReserveRejectsUnqualifiedStaff(t *testing.T) {
	repo := newFakeRepo()
	repo.services[11] = models.Service{ID: 11, SalonID: 1, Name: "Color", DurationMin: 30, PriceChf: 120, Active: true}
	uc := newReserveUC(repo)

	in := reserveInput("+41790000001", time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC))
	in.ServiceIDs = []uint{10, 11}
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "staff_not_qualified"))
}

func TestReserveConcurrentHoldCap(t *testing.T) {
	repo := newFakeRepo()
	uc := newReserveUC(repo)

	_, err := uc.Execute(context.Background(), reserveInput("+41790000001", time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	// Same customer, different slot: one live hold is the limit.
	_, err = uc.Execute(context.Background(), reserveInput("+41790000001", time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)))

	var v *domain.PolicyViolation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, domain.PolicyMaxConcurrentHolds, v.Kind)
}

func TestReserveComputesDeposit(t *testing.T) {
	repo := newFakeRepo()
	svc := repo.services[10]
	svc.RequiresDeposit = true
	repo.services[10] = svc
	repo.rules.DepositRequiredPercent = 20
	uc := newReserveUC(repo)

	ap, err := uc.Execute(context.Background(), reserveInput("+41790000001", time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.InDelta(t, 16.0, ap.DepositChf, 0.001)
	assert.Equal(t, domain.DepositNone, ap.DepositStatus)
}

func TestReserveCustomDurationChangesSpan(t *testing.T) {
	repo := newFakeRepo()
	repo.custom[2] = map[uint]int{10: 45}
	uc := newReserveUC(repo)

	starts := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	ap, err := uc.Execute(context.Background(), reserveInput("+41790000001", starts))
	require.NoError(t, err)
	assert.True(t, ap.EndsAt.Equal(starts.Add(45*time.Minute)))

	rows, _ := repo.ListAppointmentServices(context.Background(), ap.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 45, rows[0].SnapshotDurationMin)
}
