package ffbridge

import "context"

// Client is the external evaluation client wrapped by a [Bridge].
// Flag resolution, networking and persistence are entirely its concern.
type Client interface {
	// Authenticate initializes the client for the given target and blocks
	// until authentication completes. A nil error means success.
	Authenticate(ctx context.Context, apiKey string, config ClientConfig, target Target) error
	// StringVariation returns the string value of flag, or fallback.
	StringVariation(flag string, fallback string) string
	// BoolVariation returns the boolean value of flag, or fallback.
	BoolVariation(flag string, fallback bool) bool
	// NumberVariation returns the numeric value of flag, or fallback.
	NumberVariation(flag string, fallback float64) float64
	// JSONVariation returns the document value of flag, or fallback.
	JSONVariation(flag string, fallback map[string]any) map[string]any
	// RegisterEventsListener registers the listener for status events and
	// reports whether it was accepted.
	RegisterEventsListener(listener Listener) bool
	// UnregisterEventsListener removes a previously registered listener.
	UnregisterEventsListener(listener Listener)
	// Destroy tears down the client.
	Destroy() error
}

// Listener receives status events from a [Client].
// OnStatusEvent may be called from any goroutine.
type Listener interface {
	OnStatusEvent(event StatusEvent)
}

//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=client_mock_test.go -package=ffbridge
