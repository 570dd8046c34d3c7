package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainAppointment "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	domainAvailability "github.com/medplus/clinic-scheduler/internal/domain/availability"
	domainUser "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// --------------------------------------------------
// Parties (doctor / patient lookups)
// --------------------------------------------------

func (r *UserGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	err := r.withProfiles(ctx).
		Joins("JOIN doctor_profiles ON doctor_profiles.user_id = users.id").
		First(&u, "users.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundf("doctor_not_found", "Médico não encontrado com ID: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	err := r.withProfiles(ctx).
		Joins("JOIN patient_profiles ON patient_profiles.user_id = users.id").
		First(&u, "users.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundf("patient_not_found", "Paciente não encontrado com ID: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *UserGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	err := r.withProfiles(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFoundf("user_not_found", "Usuário não encontrado com ID: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var u models.User
	err := r.withProfiles(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) Taken(
	ctx context.Context,
	field domainUser.UniqueField,
	value string,
	excludeID uint,
) (bool, error) {

	var q *gorm.DB
	switch field {
	case domainUser.FieldCRM:
		q = r.db.WithContext(ctx).Model(&models.DoctorProfile{}).
			Where("crm = ? AND user_id <> ?", value, excludeID)
	case domainUser.FieldCPF:
		q = r.db.WithContext(ctx).Model(&models.User{}).
			Where("cpf = ? AND id <> ?", value, excludeID)
	default:
		q = r.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", value, excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserGormRepository) Create(
	ctx context.Context,
	u *models.User,
) error {
	return mapUserViolation(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserGormRepository) Update(
	ctx context.Context,
	u *models.User,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles", "Doctor", "Patient", "Admin").Save(u).Error; err != nil {
			return mapUserViolation(err)
		}
		switch {
		case u.Doctor != nil:
			u.Doctor.UserID = u.ID
			return tx.Save(u.Doctor).Error
		case u.Patient != nil:
			u.Patient.UserID = u.ID
			return tx.Save(u.Patient).Error
		case u.Admin != nil:
			u.Admin.UserID = u.ID
			return tx.Save(u.Admin).Error
		}
		return nil
	})
}

func (r *UserGormRepository) List(
	ctx context.Context,
	f domainUser.Filter,
) ([]models.User, error) {

	q := r.withProfiles(ctx)
	if f.Role != "" {
		q = q.Where("users.id IN (?)",
			r.db.Model(&models.UserRole{}).Select("user_id").Where("role = ?", f.Role),
		)
	}
	if f.Specialty != "" {
		q = q.Where("users.id IN (?)",
			r.db.Model(&models.DoctorProfile{}).Select("user_id").Where("LOWER(specialty) = ?", strings.ToLower(f.Specialty)),
		)
	}
	if f.Active != nil {
		q = q.Where("users.active = ?", *f.Active)
	}

	var users []models.User
	err := q.Order("users.name ASC").Find(&users).Error
	return users, err
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func (r *UserGormRepository) withProfiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Doctor").
		Preload("Patient").
		Preload("Admin")
}

func mapUserViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "crm"):
		return domainUser.ErrCRMInUse
	case strings.Contains(pgErr.ConstraintName, "cpf"):
		return domainUser.ErrCPFInUse
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domainUser.ErrEmailInUse
	}
	return err
}

// Compile-time check
var (
	_ domainUser.Repository           = (*UserGormRepository)(nil)
	_ domainAppointment.PartyLookup   = (*UserGormRepository)(nil)
	_ domainAvailability.DoctorLookup = (*UserGormRepository)(nil)
)
