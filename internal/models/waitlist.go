package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry records a customer waiting for a slot matching their
// preferences. Preference fields are immutable after creation; only Status
// and NotifiedAt change.
type WaitlistEntry struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	ServiceID uint `json:"service_id"`

	DateFrom time.Time `gorm:"type:date" json:"date_from"`
	DateTo   time.Time `gorm:"type:date" json:"date_to"`

	// morning | afternoon | any
	TimePreference string `gorm:"size:20;default:'any'" json:"time_preference"`

	// Comma-separated weekday numbers (0=Sunday). Empty = all weekdays.
	Weekdays string `gorm:"size:20" json:"weekdays"`

	// Optional preferred staff. Nil = any staff.
	StaffID *uint `json:"staff_id"`

	// active | notified | expired
	Status     string     `gorm:"size:20;index;default:'active'" json:"status"`
	NotifiedAt *time.Time `json:"notified_at"`

	// ManageToken lets the anonymous public flow withdraw the entry.
	ManageToken uuid.UUID `gorm:"type:uuid;index" json:"manage_token"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
