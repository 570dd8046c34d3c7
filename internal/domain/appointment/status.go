package appointment

import (
	"strings"

	"github.com/medplus/clinic-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled         Status = "AGENDADA"
	StatusConfirmed         Status = "CONFIRMADA"
	StatusCompleted         Status = "REALIZADA"
	StatusCanceledByPatient Status = "CANCELADA_PACIENTE"
	StatusCanceledByDoctor  Status = "CANCELADA_MEDICO"
	StatusCanceledByAdmin   Status = "CANCELADA_ADMIN"
	StatusRescheduled       Status = "REAGENDADA"
	StatusNoShow            Status = "NAO_COMPARECEU"
)

var allStatuses = []Status{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusCanceledByPatient,
	StatusCanceledByDoctor,
	StatusCanceledByAdmin,
	StatusRescheduled,
	StatusNoShow,
}

var descriptions = map[Status]string{
	StatusScheduled:         "Agendada",
	StatusConfirmed:         "Confirmada",
	StatusCompleted:         "Realizada",
	StatusCanceledByPatient: "Cancelada pelo Paciente",
	StatusCanceledByDoctor:  "Cancelada pelo Médico",
	StatusCanceledByAdmin:   "Cancelada pelo Administrador",
	StatusRescheduled:       "Reagendada",
	StatusNoShow:            "Não Compareceu",
}

// ConflictExcluded lists statuses that never count as a booking clash.
var ConflictExcluded = []Status{
	StatusCanceledByAdmin,
	StatusCanceledByDoctor,
	StatusCanceledByPatient,
	StatusNoShow,
	StatusRescheduled,
}

func (s Status) Description() string {
	if d, ok := descriptions[s]; ok {
		return d
	}
	return string(s)
}

func (s Status) IsCanceled() bool {
	return s == StatusCanceledByPatient ||
		s == StatusCanceledByDoctor ||
		s == StatusCanceledByAdmin
}

// IsTerminal reports whether normal cancel/reschedule flows refuse s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusNoShow || s.IsCanceled()
}

func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range allStatuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", httperr.Validationf("invalid_status", "Status inválido: %s", raw)
}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func InitialStatus() Status {
	return StatusScheduled
}

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if current == StatusCompleted || current == StatusNoShow {
		return httperr.Validationf(
			"cannot_cancel_finished",
			"Não é possível cancelar uma consulta que já foi realizada ou em que o paciente não compareceu.",
		)
	}
	if current.IsCanceled() {
		return httperr.Validationf("already_canceled", "Esta consulta já está cancelada.")
	}
	return nil
}

// CanReschedule define se um agendamento pode ser reagendado.
// REAGENDADA continua reagendável.
func CanReschedule(current Status) error {
	if current.IsTerminal() {
		return httperr.Validationf(
			"cannot_reschedule_status",
			"Não é possível reagendar uma consulta com status %s.",
			current.Description(),
		)
	}
	return nil
}
