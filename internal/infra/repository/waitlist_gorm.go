package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type WaitlistGormRepository struct {
	db *gorm.DB
}

func NewWaitlistGormRepository(db *gorm.DB) *WaitlistGormRepository {
	return &WaitlistGormRepository{db: db}
}

func (r *WaitlistGormRepository) Create(
	ctx context.Context,
	entry *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *WaitlistGormRepository) GetByManageToken(
	ctx context.Context,
	salonID uint,
	token uuid.UUID,
) (*models.WaitlistEntry, error) {

	var entry models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND manage_token = ?", salonID, token).
		First(&entry).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entry, nil
}

func (r *WaitlistGormRepository) ListActiveFIFO(
	ctx context.Context,
	salonID uint,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("salon_id = ? AND status = ?", salonID, domain.StatusActive).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkNotified flips entries active -> notified. Conditioning on the current
// status keeps concurrent matchers from double-notifying the same entry.
func (r *WaitlistGormRepository) MarkNotified(
	ctx context.Context,
	entryIDs []uint,
	now time.Time,
) (int64, error) {

	if len(entryIDs) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id IN ? AND status = ?", entryIDs, domain.StatusActive).
		Updates(map[string]interface{}{
			"status":      domain.StatusNotified,
			"notified_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *WaitlistGormRepository) MarkExpired(
	ctx context.Context,
	entryIDs []uint,
) error {

	if len(entryIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id IN ? AND status = ?", entryIDs, domain.StatusActive).
		Update("status", domain.StatusExpired).Error
}

func (r *WaitlistGormRepository) UpdateStatus(
	ctx context.Context,
	entry *models.WaitlistEntry,
	prevStatus string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ? AND salon_id = ? AND status = ?", entry.ID, entry.SalonID, prevStatus).
		Updates(map[string]interface{}{
			"status":      entry.Status,
			"notified_at": entry.NotifiedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*WaitlistGormRepository)(nil)
