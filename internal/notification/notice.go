package notification

import (
	"fmt"
	"time"
)

const (
	TypeBooked   = "appointment_booked"
	TypeReminder = "appointment_reminder"
)

const displayLayout = "02/01/2006 15:04"

// Notice is what a Sender delivers to a patient.
type Notice struct {
	Type          string    `json:"type"`
	AppointmentID uint      `json:"appointment_id"`
	PatientEmail  string    `json:"patient_email"`
	PatientName   string    `json:"patient_name"`
	DoctorName    string    `json:"doctor_name"`
	DateTime      time.Time `json:"date_time"`
	OnlineLink    string    `json:"online_link,omitempty"`
}

// Message renders the subject and body sent to the patient.
func (n Notice) Message() (subject, body string) {
	when := n.DateTime.Format(displayLayout)

	switch n.Type {
	case TypeReminder:
		subject = "Lembrete de Consulta"
		body = fmt.Sprintf(
			"Olá %s, Lembramos que sua consulta com Dr(a). %s está marcada para %s.",
			n.PatientName, n.DoctorName, when,
		)
	default:
		subject = "Confirmação de Agendamento de Consulta"
		body = fmt.Sprintf(
			"Olá %s, Sua consulta com Dr(a). %s foi agendada para %s.",
			n.PatientName, n.DoctorName, when,
		)
	}

	if n.OnlineLink != "" {
		body += " Link de atendimento: " + n.OnlineLink
	}
	return subject, body
}
