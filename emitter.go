package ffbridge

import (
	"context"
	"errors"
	"sync"
)

// Host event names.
const (
	EventEvaluationPolling = "evaluation_polling"
	EventEvaluationChange  = "evaluation_change"
	EventStart             = "start"
	EventEnd               = "end"

	// EventError is only emitted by bridges built with [WithErrorEvents].
	EventError = "error"
)

// ErrHostUnavailable is returned by an [Emitter] whose host event channel is
// not ready or has been closed.
var ErrHostUnavailable = errors.New("host event channel unavailable")

// Emitter is the host runtime's event channel.
//
// Emit delivers one named event. The payload is a []Record for
// [EventEvaluationPolling], a Record for [EventEvaluationChange], a string
// message for [EventError], and nil for [EventStart] and [EventEnd]. Emit may
// block; it must return when ctx is done.
//
// Emit runs on the bridge's relay goroutine, which [Bridge.Destroy] waits
// for. An emitter that tears the bridge down in response to an event must
// call Destroy from another goroutine.
type Emitter interface {
	Emit(ctx context.Context, name string, payload any) error
}

// EmitterFunc adapts a function to the [Emitter] interface.
type EmitterFunc func(ctx context.Context, name string, payload any) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, name string, payload any) error {
	return f(ctx, name, payload)
}

// HostEvent is an event as seen by the host.
type HostEvent struct {
	Name    string
	Payload any
}

// ChannelEmitter is an [Emitter] backed by a buffered channel, for hosts that
// consume events from Go code.
type ChannelEmitter struct {
	events    chan HostEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelEmitter returns a ChannelEmitter with the given buffer size.
func NewChannelEmitter(size int) *ChannelEmitter {
	if size < 0 {
		size = 0
	}
	return &ChannelEmitter{
		events: make(chan HostEvent, size),
		done:   make(chan struct{}),
	}
}

// Events returns the channel of emitted events. It is never closed; use
// [ChannelEmitter.Done] to observe closing.
func (e *ChannelEmitter) Events() <-chan HostEvent {
	return e.events
}

// Done is closed when the emitter is closed.
func (e *ChannelEmitter) Done() <-chan struct{} {
	return e.done
}

// Emit sends the event, blocking while the buffer is full.
func (e *ChannelEmitter) Emit(ctx context.Context, name string, payload any) error {
	select {
	case <-e.done:
		return ErrHostUnavailable
	default:
	}
	select {
	case e.events <- HostEvent{Name: name, Payload: payload}:
		return nil
	case <-e.done:
		return ErrHostUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the host channel unavailable. Later calls to Emit return
// [ErrHostUnavailable].
func (e *ChannelEmitter) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}
