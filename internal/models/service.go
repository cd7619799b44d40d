package models

import "time"

// Service is the salon catalog entry. The scheduling core only reads it:
// at slot computation (durations, buffers) and at reservation time, when
// its economics are copied into AppointmentService snapshot rows.
type Service struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	DurationMin     int `json:"duration_min"`
	BufferBeforeMin int `gorm:"default:0" json:"buffer_before_min"`
	BufferAfterMin  int `gorm:"default:0" json:"buffer_after_min"`

	PriceChf        float64 `json:"price_chf"`
	TaxRate         float64 `json:"tax_rate"`
	RequiresDeposit bool    `gorm:"default:false" json:"requires_deposit"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
