package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/internal/diagnostic/domain"
)

func TestEmitterFansOut(t *testing.T) {
	e := NewEmitter()
	first := e.Subscribe(8)
	second := e.Subscribe(8)

	e.Publish(Event{StepID: domain.StepDNS, Status: domain.StatusRunning, Message: "resolving"})
	e.Close()

	for _, ch := range []<-chan Event{first, second} {
		event, ok := <-ch
		require.True(t, ok)
		assert.Equal(t, domain.StepDNS, event.StepID)
		assert.Equal(t, domain.StatusRunning, event.Status)

		_, ok = <-ch
		assert.False(t, ok, "channel closed after Close")
	}
}

func TestEmitterDropsWhenSubscriberIsFull(t *testing.T) {
	e := NewEmitter()
	defer e.Close()
	ch := e.Subscribe(1)

	e.Publish(Event{StepID: domain.StepDNS, Status: domain.StatusRunning})
	// Buffer is full: this publish must not block and the event is lost.
	e.Publish(Event{StepID: domain.StepDNS, Status: domain.StatusSuccess})

	event := <-ch
	assert.Equal(t, domain.StatusRunning, event.Status)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected buffered event: %+v", extra)
	default:
	}
}

func TestEmitterSubscribeAfterClose(t *testing.T) {
	e := NewEmitter()
	e.Close()

	ch := e.Subscribe(8)
	_, ok := <-ch
	assert.False(t, ok, "late subscriber gets a closed channel")
}

func TestEmitterPublishAfterCloseIsNoop(t *testing.T) {
	e := NewEmitter()
	e.Subscribe(8)
	e.Close()
	e.Publish(Event{StepID: domain.StepDNS}) // must not panic
	e.Close()                                // idempotent
}
