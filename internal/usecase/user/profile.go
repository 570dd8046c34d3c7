package user

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/validators"
)

// ProfileInput is a partial update; nil fields are left untouched.
type ProfileInput struct {
	Name      *string
	Email     *string
	CPF       *string
	Phone     *string
	BirthDate *time.Time
	Address   *models.Address

	Specialty      *string
	MedicalHistory *string
	AccessLevel    *string
}

type Profile struct {
	repo       domain.Repository
	emailCheck validators.EmailCheck
	audit      audit.Recorder
}

func NewProfile(
	repo domain.Repository,
	emailCheck validators.EmailCheck,
	audit audit.Recorder,
) *Profile {
	return &Profile{
		repo:       repo,
		emailCheck: emailCheck,
		audit:      audit,
	}
}

func (uc *Profile) Get(ctx context.Context, id uint) (*models.User, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *Profile) Update(
	ctx context.Context,
	id uint,
	in ProfileInput,
	actorID uint,
) (*models.User, error) {

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != u.Email {
			if !uc.emailCheck(email) {
				return nil, domain.ErrInvalidEmailDomain
			}
			if err := assertFree(ctx, uc.repo, domain.FieldEmail, email, u.ID); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}
	if in.CPF != nil {
		if err := assertFree(ctx, uc.repo, domain.FieldCPF, strings.TrimSpace(*in.CPF), u.ID); err != nil {
			return nil, err
		}
		u.CPF = optional(*in.CPF)
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.BirthDate != nil {
		u.BirthDate = in.BirthDate
	}
	if in.Address != nil {
		u.Address = *in.Address
	}

	if in.Specialty != nil && u.Doctor != nil {
		u.Doctor.Specialty = strings.TrimSpace(*in.Specialty)
	}
	if in.MedicalHistory != nil && u.Patient != nil {
		u.Patient.MedicalHistory = *in.MedicalHistory
	}
	if in.AccessLevel != nil && u.Admin != nil {
		u.Admin.AccessLevel = *in.AccessLevel
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.record(actorID, "user_updated", u.ID)
	return u, nil
}

func (uc *Profile) ChangePassword(
	ctx context.Context,
	id uint,
	current string,
	next string,
) error {

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return domain.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), hashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)

	if err := uc.repo.Update(ctx, u); err != nil {
		return err
	}

	uc.record(id, "password_changed", u.ID)
	return nil
}

// SetActive is idempotent. Inactive doctors and patients cannot be booked.
func (uc *Profile) SetActive(
	ctx context.Context,
	id uint,
	active bool,
	actorID uint,
) (*models.User, error) {

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Active = active
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	action := "user_deactivated"
	if active {
		action = "user_activated"
	}
	uc.record(actorID, action, u.ID)
	return u, nil
}

func (uc *Profile) record(actorID uint, action string, userID uint) {
	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(actorID),
		Action:   action,
		Entity:   "user",
		EntityID: audit.Ptr(userID),
	})
}
