package models

import "time"

type StaffMember struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:100" json:"email"`
	Phone  string `gorm:"size:20" json:"phone"`
	Role   string `gorm:"size:20;default:'staff'" json:"role"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StaffSkill links a staff member to a service they can perform.
// CustomDurationMin, when set, replaces the service's catalog duration
// for this staff member.
type StaffSkill struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StaffID   uint `gorm:"index:idx_staff_service,unique" json:"staff_id"`
	ServiceID uint `gorm:"index:idx_staff_service,unique" json:"service_id"`

	CustomDurationMin *int `json:"custom_duration_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
