package appointment

import (
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

// cancellationByRole maps who cancels to the resulting status.
var cancellationByRole = map[models.Role]Status{
	models.RolePatient: StatusCanceledByPatient,
	models.RoleDoctor:  StatusCanceledByDoctor,
	models.RoleAdmin:   StatusCanceledByAdmin,
}

func CancellationStatusFor(role models.Role) (Status, error) {
	if s, ok := cancellationByRole[role]; ok {
		return s, nil
	}
	return "", httperr.Validationf(
		"invalid_cancel_role",
		"Perfil inválido para cancelamento: %s",
		role,
	)
}
