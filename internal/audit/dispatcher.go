package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Store interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	store Store
	queue chan Event
	log   zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(store Store, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		store: store,
		queue: make(chan Event, 100),
		log:   log,
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit error")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia: audit nunca quebra a API
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

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

// Ptr is a helper for the optional ID fields of Event.
func Ptr(id uint) *uint {
	return &id
}

// Recorder is what use cases depend on.
type Recorder interface {
	Dispatch(ev Event)
}
