package waitlist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type Repository interface {
	Create(
		ctx context.Context,
		entry *models.WaitlistEntry,
	) error

	GetByManageToken(
		ctx context.Context,
		salonID uint,
		token uuid.UUID,
	) (*models.WaitlistEntry, error)

	// ListActiveFIFO returns the salon's active entries ordered by creation
	// time ascending. FIFO is the only fairness signal.
	ListActiveFIFO(
		ctx context.Context,
		salonID uint,
	) ([]models.WaitlistEntry, error)

	// MarkNotified flips entries to notified, conditioned on them still
	// being active so concurrent matchers cannot double-notify.
	MarkNotified(
		ctx context.Context,
		entryIDs []uint,
		now time.Time,
	) (int64, error)

	MarkExpired(
		ctx context.Context,
		entryIDs []uint,
	) error

	UpdateStatus(
		ctx context.Context,
		entry *models.WaitlistEntry,
		prevStatus string,
	) error
}
