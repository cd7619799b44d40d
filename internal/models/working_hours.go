package models

import "time"

// WorkingHours is the recurring weekly schedule of a staff member.
// Times are "15:04" strings in the salon timezone.
type WorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	Weekday int `json:"weekday"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkingHoursOverride replaces the recurring entry for every date inside
// [StartDate, EndDate]. It never merges with the weekly schedule: on a
// covered date the override alone decides the open interval.
type WorkingHoursOverride struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	StartDate time.Time `gorm:"type:date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`

	// Closed marks the whole day as not bookable regardless of times below.
	Closed bool `gorm:"default:false" json:"closed"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`

	Note string `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
