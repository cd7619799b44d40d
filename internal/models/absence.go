package models

import "time"

// Absence subtracts from availability, never adds. StartTime/EndTime empty
// means the absence covers the whole day(s) in [StartDate, EndDate].
type Absence struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	StartDate time.Time `gorm:"type:date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`

	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// vacation, sick_leave, day_off, other
	Reason string `gorm:"size:20" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
