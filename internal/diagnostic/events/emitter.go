package events

import (
	"sync"

	"netcheck/internal/diagnostic/domain"
)

// Event is one step status transition. Ordering is guaranteed per step
// only; during the parallel phase events from different steps interleave
// arbitrarily.
type Event struct {
	StepID  domain.StepID     `json:"step_id"`
	Status  domain.StepStatus `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
}

// Emitter fans events out from the single orchestrator writer to any
// number of subscribers. A subscriber that falls behind loses events
// rather than stalling a probe.
type Emitter struct {
	mu          sync.Mutex
	subscribers []chan Event
	closed      bool
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers a new reader. The channel is closed by Close.
func (e *Emitter) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 32
	}
	ch := make(chan Event, buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.subscribers = append(e.subscribers, ch)
	return ch
}

// Publish delivers the event to every subscriber without blocking.
func (e *Emitter) Publish(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close ends the stream and unblocks every subscriber.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = nil
}
