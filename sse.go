package ffbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"
)

// DefaultSSEStream is the stream id used by [NewSSEEmitter] when none is given.
const DefaultSSEStream = "flags"

// SSEEmitter is an [Emitter] that publishes host events to a stream of an
// SSE server. The host event name becomes the SSE event field and the payload
// is sent as JSON data.
type SSEEmitter struct {
	server *sse.Server
	stream string
	closed atomic.Bool
}

// NewSSEEmitter returns an emitter publishing to stream on server, creating
// the stream if it does not exist.
func NewSSEEmitter(server *sse.Server, stream string) *SSEEmitter {
	if stream == "" {
		stream = DefaultSSEStream
	}
	if !server.StreamExists(stream) {
		server.CreateStream(stream)
	}
	return &SSEEmitter{server: server, stream: stream}
}

// Stream returns the stream id events are published to.
func (e *SSEEmitter) Stream() string {
	return e.stream
}

// Emit publishes the event.
func (e *SSEEmitter) Emit(ctx context.Context, name string, payload any) error {
	if e.closed.Load() {
		return ErrHostUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", name, err)
	}
	e.server.Publish(e.stream, &sse.Event{
		ID:    []byte(uuid.NewString()),
		Event: []byte(name),
		Data:  data,
	})
	return nil
}

// Close removes the stream. Later calls to Emit return [ErrHostUnavailable].
func (e *SSEEmitter) Close() {
	if e.closed.CompareAndSwap(false, true) {
		e.server.RemoveStream(e.stream)
	}
}
