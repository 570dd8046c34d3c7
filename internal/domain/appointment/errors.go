package appointment

import "github.com/medplus/clinic-scheduler/internal/httperr"

var (
	ErrDoctorDoubleBooked = httperr.ErrBusiness(
		httperr.KindValidation,
		"doctor_double_booked",
		"O médico já possui uma consulta agendada para este horário.",
	)
	ErrPatientDoubleBooked = httperr.ErrBusiness(
		httperr.KindValidation,
		"patient_double_booked",
		"O paciente já possui uma consulta agendada para este horário.",
	)
	ErrNotAvailable = httperr.ErrBusiness(
		httperr.KindValidation,
		"not_available",
		"Horário não disponível para este médico.",
	)
	ErrPastDateTime = httperr.ErrBusiness(
		httperr.KindValidation,
		"past_datetime",
		"A data e hora da consulta devem estar no futuro.",
	)
	ErrNotOwner = httperr.Forbiddenf(
		"appointment_not_owned",
		"Você não tem permissão para alterar esta consulta.",
	)
)
