package appointment

import (
	"context"
	"time"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

type ListDayInput struct {
	SalonID uint

	// StaffID 0 lists the whole salon.
	StaffID uint

	Date time.Time
}

// ListDay returns the agenda for one day, every status included, ordered by
// start time.
type ListDay struct {
	repo domain.Repository
}

func NewListDay(repo domain.Repository) *ListDay {
	return &ListDay{repo: repo}
}

func (uc *ListDay) Execute(ctx context.Context, in ListDayInput) ([]models.Appointment, error) {
	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(salon.Timezone)
	dayStart := startOfDay(in.Date.In(loc), loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	return uc.repo.ListAppointmentsForDay(ctx, in.SalonID, in.StaffID, dayStart, dayEnd)
}
