package waitlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
)

// Withdraw takes an entry off the waitlist via its manage token. Active and
// already-notified entries can both be withdrawn; terminal ones cannot.
type Withdraw struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewWithdraw(repo domain.Repository, audit *audit.Dispatcher) *Withdraw {
	return &Withdraw{repo: repo, audit: audit}
}

func (uc *Withdraw) ExecuteByToken(ctx context.Context, salonID uint, token uuid.UUID) error {
	entry, err := uc.repo.GetByManageToken(ctx, salonID, token)
	if err != nil {
		return err
	}

	prev := entry.Status
	if prev != domain.StatusActive && prev != domain.StatusNotified {
		return httperr.ErrBusiness("waitlist_entry_closed")
	}

	entry.Status = domain.StatusWithdrawn
	if err := uc.repo.UpdateStatus(ctx, entry, prev); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		Action:   "waitlist_withdrawn",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
	})
	return nil
}
