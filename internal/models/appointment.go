package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StaffID uint        `gorm:"index:idx_staff_time" json:"staff_id"`
	Staff   StaffMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	// [StartsAt, EndsAt) covers service durations plus both buffers.
	StartsAt time.Time `gorm:"index:idx_staff_time" json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	BufferBeforeMin int `gorm:"default:0" json:"buffer_before_min"`
	BufferAfterMin  int `gorm:"default:0" json:"buffer_after_min"`

	Status string `gorm:"size:20;index;default:'reserved'" json:"status"`

	// Set while Status = reserved; cleared on confirm/cancel.
	ReservedUntil *time.Time `json:"reserved_until"`

	// HoldToken lets the anonymous public flow confirm or abandon its hold.
	HoldToken uuid.UUID `gorm:"type:uuid;index" json:"hold_token"`

	DepositChf    float64    `json:"deposit_chf"`
	DepositStatus string     `gorm:"size:20;default:'none'" json:"deposit_status"`
	DepositPaidAt *time.Time `json:"deposit_paid_at"`
	PaymentRef    string     `gorm:"size:100" json:"payment_ref"`

	CancelledAt  *time.Time `json:"cancelled_at"`
	CancelledBy  string     `gorm:"size:20" json:"cancelled_by"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`

	CompletedAt *time.Time `json:"completed_at"`
	NoShowAt    *time.Time `json:"no_show_at"`

	Notes string `gorm:"size:255" json:"notes"`

	Services []AppointmentService `json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentService is an immutable snapshot of the catalog entry at
// reservation time. Rows are append-only: later catalog edits never change
// a booked appointment's economics.
type AppointmentService struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`
	ServiceID     uint `json:"service_id"`

	SnapshotName        string  `gorm:"size:100" json:"snapshot_name"`
	SnapshotPriceChf    float64 `json:"snapshot_price_chf"`
	SnapshotTaxRate     float64 `json:"snapshot_tax_rate"`
	SnapshotDurationMin int     `json:"snapshot_duration_min"`

	Position int `json:"position"`

	CreatedAt time.Time `json:"created_at"`
}
