package user

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/validators"
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

// ======================================================
// INPUT
// ======================================================

type RegisterInput struct {
	Role models.Role

	Name      string
	Email     string
	Password  string
	CPF       string
	Phone     string
	BirthDate *time.Time
	Address   models.Address

	// MEDICO
	CRM       string
	Specialty string

	// PACIENTE
	MedicalHistory string

	// ADMIN
	AccessLevel string

	ActorID uint
}

// ======================================================
// USE CASE
// ======================================================

type Register struct {
	repo       domain.Repository
	emailCheck validators.EmailCheck
	audit      audit.Recorder
}

func NewRegister(
	repo domain.Repository,
	emailCheck validators.EmailCheck,
	audit audit.Recorder,
) *Register {
	return &Register{
		repo:       repo,
		emailCheck: emailCheck,
		audit:      audit,
	}
}

func (uc *Register) Execute(
	ctx context.Context,
	in RegisterInput,
) (*models.User, error) {

	email := normalizeEmail(in.Email)

	// --------------------------------------------------
	// 1️⃣ Dados obrigatórios por perfil
	// --------------------------------------------------
	switch in.Role {
	case models.RolePatient, models.RoleAdmin:
	case models.RoleDoctor:
		if strings.TrimSpace(in.CRM) == "" || strings.TrimSpace(in.Specialty) == "" {
			return nil, httperr.Validationf("doctor_profile_required", "CRM e especialidade são obrigatórios para médicos.")
		}
	default:
		return nil, httperr.Validationf("invalid_role", "Perfil inválido: %s", in.Role)
	}

	if !uc.emailCheck(email) {
		return nil, domain.ErrInvalidEmailDomain
	}

	// --------------------------------------------------
	// 2️⃣ Unicidade
	// --------------------------------------------------
	unique := map[domain.UniqueField]string{
		domain.FieldEmail: email,
		domain.FieldCPF:   strings.TrimSpace(in.CPF),
		domain.FieldCRM:   strings.TrimSpace(in.CRM),
	}
	for _, field := range []domain.UniqueField{domain.FieldEmail, domain.FieldCPF, domain.FieldCRM} {
		if err := assertFree(ctx, uc.repo, field, unique[field], 0); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3️⃣ Criação
	// --------------------------------------------------
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashed),
		CPF:          optional(in.CPF),
		Phone:        in.Phone,
		BirthDate:    in.BirthDate,
		Address:      in.Address,
		Active:       true,
		Roles:        []models.UserRole{{Role: in.Role}},
	}

	switch in.Role {
	case models.RoleDoctor:
		u.Doctor = &models.DoctorProfile{CRM: strings.TrimSpace(in.CRM), Specialty: strings.TrimSpace(in.Specialty)}
	case models.RolePatient:
		u.Patient = &models.PatientProfile{MedicalHistory: in.MedicalHistory}
	case models.RoleAdmin:
		u.Admin = &models.AdminProfile{AccessLevel: in.AccessLevel}
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	actor := in.ActorID
	if actor == 0 {
		actor = u.ID
	}
	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(actor),
		Action:   "user_registered",
		Entity:   "user",
		EntityID: audit.Ptr(u.ID),
		Metadata: map[string]any{"role": string(in.Role)},
	})

	return u, nil
}

// ======================================================
// helpers
// ======================================================

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// assertFree skips empty values.
func assertFree(
	ctx context.Context,
	repo domain.Repository,
	field domain.UniqueField,
	value string,
	excludeID uint,
) error {

	if value == "" {
		return nil
	}
	taken, err := repo.Taken(ctx, field, value, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrTaken(field)
	}
	return nil
}
