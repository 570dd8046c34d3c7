package user

import "github.com/medplus/clinic-scheduler/internal/httperr"

var (
	ErrEmailInUse = httperr.Conflictf("email_in_use", "Já existe um usuário com este e-mail.")
	ErrCPFInUse   = httperr.Conflictf("cpf_in_use", "Já existe um usuário com este CPF.")
	ErrCRMInUse   = httperr.Conflictf("crm_in_use", "Já existe um médico com este CRM.")

	ErrInvalidCredentials = httperr.Unauthorizedf("invalid_credentials", "E-mail ou senha inválidos.")
	ErrInactive           = httperr.Unauthorizedf("user_inactive", "Usuário inativo.")
	ErrWrongPassword      = httperr.Validationf("invalid_current_password", "A senha atual não confere.")
	ErrInvalidEmailDomain = httperr.Validationf("invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
)

// ErrTaken maps a unique column to its conflict error.
func ErrTaken(f UniqueField) error {
	switch f {
	case FieldCPF:
		return ErrCPFInUse
	case FieldCRM:
		return ErrCRMInUse
	default:
		return ErrEmailInUse
	}
}
