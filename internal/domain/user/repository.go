package user

import (
	"context"

	"github.com/medplus/clinic-scheduler/internal/models"
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	Role      models.Role
	Specialty string
	Active    *bool
}

type Repository interface {
	GetByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// GetByEmail returns nil, nil when no user has that email.
	GetByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	// Taken reports whether a unique column value is already used by a user
	// other than excludeID.
	Taken(
		ctx context.Context,
		field UniqueField,
		value string,
		excludeID uint,
	) (bool, error)

	// Create persists the user together with its roles and profile.
	Create(
		ctx context.Context,
		u *models.User,
	) error

	// Update saves the user columns and the attached profile.
	Update(
		ctx context.Context,
		u *models.User,
	) error

	List(
		ctx context.Context,
		f Filter,
	) ([]models.User, error)
}

type UniqueField string

const (
	FieldEmail UniqueField = "email"
	FieldCPF   UniqueField = "cpf"
	FieldCRM   UniqueField = "crm"
)
