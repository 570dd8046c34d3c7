package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Sender interface {
	Send(ctx context.Context, n Notice) error
}

// Dispatcher delivers notices on a single background worker. Dispatch never
// blocks: when the queue is full the notice is dropped and logged.
type Dispatcher struct {
	sender  Sender
	queue   chan Notice
	log     zerolog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sender Sender, size int, log zerolog.Logger) *Dispatcher {
	if size <= 0 {
		size = 100
	}

	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Notice, size),
		log:     log,
		timeout: 10 * time.Second,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, n); err != nil {
			d.log.Error().
				Err(err).
				Str("type", n.Type).
				Uint("appointment_id", n.AppointmentID).
				Msg("notification failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(n Notice) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("type", n.Type).Msg("dispatcher closed, dropping notification")
		return
	}

	select {
	case d.queue <- n:
	default:
		d.log.Warn().
			Str("type", n.Type).
			Uint("appointment_id", n.AppointmentID).
			Msg("notification queue full, dropping event")
	}
}

// Close stops accepting notices and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
