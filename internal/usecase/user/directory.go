package user

import (
	"context"
	"strings"

	domain "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type Directory struct {
	repo domain.Repository
}

func NewDirectory(repo domain.Repository) *Directory {
	return &Directory{repo: repo}
}

// Doctors lists active doctors, optionally by specialty (case-insensitive).
func (d *Directory) Doctors(ctx context.Context, specialty string) ([]models.User, error) {
	active := true
	return d.repo.List(ctx, domain.Filter{
		Role:      models.RoleDoctor,
		Specialty: strings.TrimSpace(specialty),
		Active:    &active,
	})
}

func (d *Directory) List(ctx context.Context, f domain.Filter) ([]models.User, error) {
	return d.repo.List(ctx, f)
}

func (d *Directory) Get(ctx context.Context, id uint) (*models.User, error) {
	return d.repo.GetByID(ctx, id)
}
