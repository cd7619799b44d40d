package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/config"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

func NewDB(cfg *config.Config, log *zap.SugaredLogger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalw("failed to connect database", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalw("failed to get sql.DB", "error", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Salon{},
		&models.BookingRules{},
		&models.StaffMember{},
		&models.StaffSkill{},
		&models.Service{},
		&models.WorkingHours{},
		&models.WorkingHoursOverride{},
		&models.Absence{},
		&models.Customer{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.WaitlistEntry{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalw("failed to migrate", "error", err)
	}

	db.Exec(`
        UPDATE salons
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone)

	return db
}
