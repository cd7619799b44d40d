package models

import "time"

// BookingRules holds the booking policy of a salon. One row per salon.
type BookingRules struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `gorm:"uniqueIndex" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	MinLeadTimeMinutes                 int `gorm:"default:120" json:"min_lead_time_minutes"`
	MaxBookingHorizonDays              int `gorm:"default:90" json:"max_booking_horizon_days"`
	SlotGranularityMinutes             int `gorm:"default:15" json:"slot_granularity_minutes"`
	DefaultBufferMinutes               int `gorm:"default:0" json:"default_buffer_minutes"`
	ReservationTimeoutMinutes          int `gorm:"default:15" json:"reservation_timeout_minutes"`
	CancellationCutoffHours            int `gorm:"default:24" json:"cancellation_cutoff_hours"`
	MaxBookingsPerDay                  int `gorm:"default:0" json:"max_bookings_per_day"`
	MaxConcurrentReservationsPerClient int `gorm:"default:1" json:"max_concurrent_reservations_per_client"`
	DepositRequiredPercent             int `gorm:"default:0" json:"deposit_required_percent"`

	// none | charge_deposit | charge_full
	NoShowPolicy string `gorm:"size:20;default:'none'" json:"no_show_policy"`

	// When true, new bookings wait in requested until staff approve them.
	RequiresApproval bool `gorm:"default:false" json:"requires_approval"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
