package waitlist

import (
	"context"
	"time"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type ListMatchesInput struct {
	SalonID uint

	// StaffID 0 means any staff preference qualifies.
	StaffID uint

	From time.Time
	To   time.Time
}

// ListMatches shows staff which active entries could be satisfied inside a
// calendar window, FIFO-ordered. Read-only; nothing is flipped to notified.
type ListMatches struct {
	repo domain.Repository
}

func NewListMatches(repo domain.Repository) *ListMatches {
	return &ListMatches{repo: repo}
}

func (uc *ListMatches) Execute(ctx context.Context, in ListMatchesInput) ([]models.WaitlistEntry, error) {
	entries, err := uc.repo.ListActiveFIFO(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	return domain.MatchWindow(entries, in.StaffID, in.From, in.To), nil
}
