package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	notices []Notice
	block   chan struct{}
	err     error
}

func (s *recordingSender) Send(_ context.Context, n Notice) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
	return s.err
}

func (s *recordingSender) sent() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

func TestNoticeMessage(t *testing.T) {
	n := Notice{
		Type:        TypeBooked,
		PatientName: "Ana",
		DoctorName:  "Carlos",
		DateTime:    time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
	}

	subject, body := n.Message()
	assert.Equal(t, "Confirmação de Agendamento de Consulta", subject)
	assert.Equal(t, "Olá Ana, Sua consulta com Dr(a). Carlos foi agendada para 07/01/2030 10:00.", body)

	n.Type = TypeReminder
	n.OnlineLink = "https://meet.test/abc"
	subject, body = n.Message()
	assert.Equal(t, "Lembrete de Consulta", subject)
	assert.Contains(t, body, "https://meet.test/abc")
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 10, zerolog.Nop())

	for i := 1; i <= 3; i++ {
		d.Dispatch(Notice{Type: TypeBooked, AppointmentID: uint(i)})
	}
	d.Close()

	got := sender.sent()
	require.Len(t, got, 3)
	assert.Equal(t, uint(1), got[0].AppointmentID)

	// after close, dispatch is a no-op
	d.Dispatch(Notice{AppointmentID: 99})
	assert.Len(t, sender.sent(), 3)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			d.Dispatch(Notice{AppointmentID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(sender.block)
	d.Close()
	assert.Less(t, len(sender.sent()), 50)
}

func TestDispatcher_SenderErrorIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 2, zerolog.Nop())

	d.Dispatch(Notice{AppointmentID: 1})
	d.Close()

	assert.Len(t, sender.sent(), 1)
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSender_Send(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSender{writer: w}

	err := s.Send(context.Background(), Notice{
		Type:          TypeBooked,
		AppointmentID: 7,
		PatientEmail:  "ana@example.com",
		PatientName:   "Ana",
		DoctorName:    "Carlos",
		DateTime:      time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	assert.Equal(t, "7", string(w.msgs[0].Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &payload))
	assert.Equal(t, "ana@example.com", payload["patient_email"])
	assert.Equal(t, "Confirmação de Agendamento de Consulta", payload["subject"])
	assert.Equal(t, TypeBooked, payload["type"])
}
