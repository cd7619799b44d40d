package handlers

import (
	"time"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

// Dates and times in requests are always interpreted in the salon's own
// timezone, never the server's.

func parseDateInSalon(salon *models.Salon, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(salon.Timezone),
	)
}

func parseDateTimeInSalon(
	salon *models.Salon,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		timezone.Location(salon.Timezone),
	)
}
