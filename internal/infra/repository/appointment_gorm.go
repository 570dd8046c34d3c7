package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medplus/clinic-scheduler/internal/db"
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

const pgUniqueViolation = "23505"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error
	return mapSlotViolation(err)
}

// ExistsConflict locks the matching row, if any, until the transaction ends.
func (r *AppointmentGormRepository) ExistsConflict(
	ctx context.Context,
	party domain.Party,
	partyID uint,
	at time.Time,
	excluded []domain.Status,
	excludeID uint,
) (bool, error) {

	column := "doctor_id"
	if party == domain.PartyPatient {
		column = "patient_id"
	}

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(column+" = ? AND date_time = ?", partyID, at)

	if len(excluded) > 0 {
		q = q.Where("status NOT IN ?", statusStrings(excluded))
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ids []uint
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.withParties(ctx).First(&ap, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundf("appointment_not_found", "Consulta não encontrada com ID: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
	return mapSlotViolation(err)
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *AppointmentGormRepository) ListByPatient(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withParties(ctx).
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListByPatientInRange(
	ctx context.Context,
	patientID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withParties(ctx).
		Where("patient_id = ? AND date_time BETWEEN ? AND ?", patientID, from, to).
		Order("date_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListByDoctor(
	ctx context.Context,
	doctorID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withParties(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListByDoctorInRange(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withParties(ctx).
		Where("doctor_id = ? AND date_time BETWEEN ? AND ?", doctorID, from, to).
		Order("date_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListUpcomingByDoctor(
	ctx context.Context,
	doctorID uint,
	after time.Time,
	limit int,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withParties(ctx).
		Where("doctor_id = ? AND date_time > ?", doctorID, after).
		Order("date_time ASC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListInRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
	statuses []domain.Status,
) ([]models.Appointment, error) {

	q := r.withParties(ctx).
		Where("date_time BETWEEN ? AND ?", from, to)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(statuses))
	}

	var apps []models.Appointment
	err := q.Order("date_time ASC").Find(&apps).Error
	return apps, err
}

func (r *AppointmentGormRepository) ListAll(
	ctx context.Context,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withParties(ctx).
		Order("date_time DESC").
		Find(&apps).Error
	return apps, err
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func (r *AppointmentGormRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.Doctor")
}

func statusStrings(in []domain.Status) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

// mapSlotViolation turns a hit on one of the partial unique indexes into the
// matching double-booking error.
func mapSlotViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case db.DoctorSlotIndex:
		return domain.ErrDoctorDoubleBooked
	case db.PatientSlotIndex:
		return domain.ErrPatientDoubleBooked
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
