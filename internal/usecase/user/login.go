package user

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type Login struct {
	repo domain.Repository
}

func NewLogin(repo domain.Repository) *Login {
	return &Login{repo: repo}
}

// Execute answers invalid_credentials for both an unknown email and a wrong
// password.
func (uc *Login) Execute(
	ctx context.Context,
	email string,
	password string,
) (*models.User, error) {

	u, err := uc.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !u.Active {
		return nil, domain.ErrInactive
	}
	return u, nil
}
