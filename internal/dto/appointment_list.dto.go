package dto

import (
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// AppointmentListDTO is the flattened calendar row the staff app renders.
type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	StaffID      uint      `json:"staff_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	Services     []string  `json:"services"`
	TotalChf     float64   `json:"total_chf"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:           ap.ID,
		StaffID:      ap.StaffID,
		StartsAt:     ap.StartsAt,
		EndsAt:       ap.EndsAt,
		Status:       ap.Status,
		CustomerName: ap.Customer.Name,
	}
	for _, svc := range ap.Services {
		out.Services = append(out.Services, svc.SnapshotName)
		out.TotalChf += svc.SnapshotPriceChf
	}
	return out
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap))
	}
	return out
}
