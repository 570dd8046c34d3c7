package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medplus/clinic-scheduler/internal/config"
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/models"
)

const (
	DoctorSlotIndex  = "ux_appointments_doctor_slot"
	PatientSlotIndex = "ux_appointments_patient_slot"
)

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDev() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	log.Info().Str("component", "db").Msg("database connected")
	return db, nil
}

// Migrate creates the schema and the partial unique indexes that back the
// double-booking checks.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.DoctorProfile{},
		&models.PatientProfile{},
		&models.AdminProfile{},
		&models.AvailabilitySlot{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range slotIndexes() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func slotIndexes() []string {
	quoted := make([]string, 0, len(domain.ConflictExcluded))
	for _, s := range domain.ConflictExcluded {
		quoted = append(quoted, "'"+string(s)+"'")
	}
	where := "status NOT IN (" + strings.Join(quoted, ", ") + ")"

	return []string{
		fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON appointments (doctor_id, date_time) WHERE %s",
			DoctorSlotIndex, where,
		),
		fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON appointments (patient_id, date_time) WHERE %s",
			PatientSlotIndex, where,
		),
	}
}
