package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/focusgate/focusgate/internal/store"
)

// Recorder drains a bus into the event store on a background goroutine.
type Recorder struct {
	bus   *Bus
	store store.Events
	log   zerolog.Logger
	done  chan struct{}
}

// NewRecorder creates a recorder for the given bus and store.
func NewRecorder(bus *Bus, st store.Events, log zerolog.Logger) *Recorder {
	return &Recorder{bus: bus, store: st, log: log, done: make(chan struct{})}
}

// Start begins draining until the context is cancelled or the bus is closed.
func (r *Recorder) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-r.bus.Subscribe():
				if !ok {
					return
				}
				if err := r.store.Append(ctx, &ev); err != nil {
					r.log.Warn().Err(err).Str("code", ev.Code).Msg("event append failed")
				}
			}
		}
	}()
}

// Wait blocks until the drain goroutine has exited.
func (r *Recorder) Wait() { <-r.done }
