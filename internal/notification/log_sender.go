package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes rendered messages to the log. Used when no broker is
// configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n Notice) error {
	subject, body := n.Message()
	s.log.Info().
		Str("to", n.PatientEmail).
		Str("subject", subject).
		Str("body", body).
		Uint("appointment_id", n.AppointmentID).
		Msg("notification")
	return nil
}
