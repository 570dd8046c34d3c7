package dto

import (
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

type AppointmentDTO struct {
	ID                uint   `json:"id"`
	PatientID         uint   `json:"patient_id"`
	PatientName       string `json:"patient_name"`
	DoctorID          uint   `json:"doctor_id"`
	DoctorName        string `json:"doctor_name"`
	DoctorSpecialty   string `json:"doctor_specialty,omitempty"`
	DateTime          string `json:"date_time"`
	Status            string `json:"status"`
	StatusDescription string `json:"status_description"`
	Notes             string `json:"notes,omitempty"`
	CancelReason      string `json:"cancel_reason,omitempty"`
	OnlineLink        string `json:"online_link,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

func Appointment(ap models.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:                ap.ID,
		PatientID:         ap.PatientID,
		PatientName:       ap.Patient.Name,
		DoctorID:          ap.DoctorID,
		DoctorName:        ap.Doctor.Name,
		DateTime:          timezone.FormatDateTime(ap.DateTime),
		Status:            ap.Status,
		StatusDescription: domain.Status(ap.Status).Description(),
		Notes:             ap.Notes,
		CancelReason:      ap.CancelReason,
		OnlineLink:        ap.OnlineLink,
		CreatedAt:         timezone.FormatDateTime(ap.CreatedAt),
		UpdatedAt:         timezone.FormatDateTime(ap.UpdatedAt),
	}
	if ap.Doctor.Doctor != nil {
		out.DoctorSpecialty = ap.Doctor.Doctor.Specialty
	}
	return out
}

func Appointments(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, Appointment(ap))
	}
	return out
}
