package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) CreateSlot(
	ctx context.Context,
	slot *models.AvailabilitySlot,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(slot).Error
	return mapDuplicateSlot(err)
}

func (r *AvailabilityGormRepository) UpdateSlot(
	ctx context.Context,
	slot *models.AvailabilitySlot,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(slot).Error
	return mapDuplicateSlot(err)
}

func (r *AvailabilityGormRepository) GetSlot(
	ctx context.Context,
	id uint,
) (*models.AvailabilitySlot, error) {

	var slot models.AvailabilitySlot
	err := r.db.WithContext(ctx).First(&slot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundf("slot_not_found", "Disponibilidade não encontrada com ID: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *AvailabilityGormRepository) FindActiveByDoctorAndDay(
	ctx context.Context,
	doctorID uint,
	day time.Weekday,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ? AND active = ?", doctorID, int(day), true).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *AvailabilityGormRepository) ListActiveByDoctor(
	ctx context.Context,
	doctorID uint,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND active = ?", doctorID, true).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *AvailabilityGormRepository) ExistsOverlap(
	ctx context.Context,
	doctorID uint,
	day time.Weekday,
	start string,
	end string,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where(
			"doctor_id = ? AND weekday = ? AND active = ? AND start_time < ? AND end_time > ?",
			doctorID, int(day), true, end, start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AvailabilityGormRepository) FindExactMatch(
	ctx context.Context,
	doctorID uint,
	day time.Weekday,
	start string,
	end string,
) (*models.AvailabilitySlot, error) {

	var slot models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND weekday = ? AND start_time = ? AND end_time = ?",
			doctorID, int(day), start, end,
		).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func mapDuplicateSlot(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrDuplicateSlot
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AvailabilityGormRepository)(nil)
