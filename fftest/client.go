// Package fftest provides an in-memory evaluation client for testing code
// built on ffbridge.
package fftest

import (
	"context"
	"maps"
	"sync"

	"github.com/open-feature/go-sdk-contrib/providers/ffbridge"
)

// Client is an in-memory [ffbridge.Client]. It is safe for concurrent use.
//
// Flags set with [Client.Set] are returned by the variation methods when their
// type matches; otherwise the fallback is returned. Events pushed with
// [Client.Push] are delivered to the registered listener on a separate
// goroutine, in push order.
type Client struct {
	// AuthErr is returned by Authenticate when set.
	AuthErr error
	// RejectListener makes RegisterEventsListener refuse listeners.
	RejectListener bool
	// DestroyErr is returned by Destroy when set.
	DestroyErr error

	mu            sync.Mutex
	flags         map[string]any
	listener      ffbridge.Listener
	apiKey        string
	config        ffbridge.ClientConfig
	target        ffbridge.Target
	authCalls     int
	registrations int
	destroyCalls  int

	deliveries chan ffbridge.StatusEvent
	startOnce  sync.Once
}

// NewClient returns a client with the given flag values.
func NewClient(flags map[string]any) *Client {
	c := &Client{flags: map[string]any{}}
	maps.Copy(c.flags, flags)
	return c
}

// Set sets the value of a flag.
func (c *Client) Set(flag string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flags == nil {
		c.flags = map[string]any{}
	}
	c.flags[flag] = value
}

// Delete removes a flag.
func (c *Client) Delete(flag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.flags, flag)
}

// Authenticate records its arguments and returns AuthErr.
func (c *Client) Authenticate(ctx context.Context, apiKey string, config ffbridge.ClientConfig, target ffbridge.Target) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authCalls++
	c.apiKey = apiKey
	c.config = config
	c.target = target
	return c.AuthErr
}

// StringVariation implements [ffbridge.Client].
func (c *Client) StringVariation(flag string, fallback string) string {
	if v, ok := c.get(flag).(string); ok {
		return v
	}
	return fallback
}

// BoolVariation implements [ffbridge.Client].
func (c *Client) BoolVariation(flag string, fallback bool) bool {
	if v, ok := c.get(flag).(bool); ok {
		return v
	}
	return fallback
}

// NumberVariation implements [ffbridge.Client].
func (c *Client) NumberVariation(flag string, fallback float64) float64 {
	switch v := c.get(flag).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// JSONVariation implements [ffbridge.Client].
func (c *Client) JSONVariation(flag string, fallback map[string]any) map[string]any {
	if v, ok := c.get(flag).(map[string]any); ok {
		return maps.Clone(v)
	}
	return fallback
}

func (c *Client) get(flag string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags[flag]
}

// RegisterEventsListener registers listener unless RejectListener is set.
// A client holds a single listener; a new registration replaces the old one.
func (c *Client) RegisterEventsListener(listener ffbridge.Listener) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.RejectListener {
		return false
	}
	c.listener = listener
	c.registrations++
	c.startOnce.Do(c.startDelivery)
	return true
}

// UnregisterEventsListener removes listener if it is the registered one.
func (c *Client) UnregisterEventsListener(listener ffbridge.Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listener == listener {
		c.listener = nil
	}
}

// Destroy records the call and returns DestroyErr.
func (c *Client) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyCalls++
	return c.DestroyErr
}

// Push queues an event for delivery to the registered listener. Events pushed
// while no listener is registered are delivered to nobody.
func (c *Client) Push(event ffbridge.StatusEvent) {
	c.mu.Lock()
	c.startOnce.Do(c.startDelivery)
	deliveries := c.deliveries
	c.mu.Unlock()
	deliveries <- event
}

// Deliver calls the registered listener synchronously on the calling
// goroutine and reports whether a listener was registered.
func (c *Client) Deliver(event ffbridge.StatusEvent) bool {
	c.mu.Lock()
	listener := c.listener
	c.mu.Unlock()
	if listener == nil {
		return false
	}
	listener.OnStatusEvent(event)
	return true
}

// startDelivery starts the delivery goroutine. c.mu must be held.
func (c *Client) startDelivery() {
	c.deliveries = make(chan ffbridge.StatusEvent, 64)
	go func() {
		for event := range c.deliveries {
			c.Deliver(event)
		}
	}()
}

// Listener returns the registered listener, or nil.
func (c *Client) Listener() ffbridge.Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

// Registrations returns how many listeners were registered.
func (c *Client) Registrations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registrations
}

// AuthCalls returns how many times Authenticate was called.
func (c *Client) AuthCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authCalls
}

// DestroyCalls returns how many times Destroy was called.
func (c *Client) DestroyCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyCalls
}

// Target returns the target passed to the last Authenticate call.
func (c *Client) Target() ffbridge.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Config returns the configuration passed to the last Authenticate call.
func (c *Client) Config() ffbridge.ClientConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// APIKey returns the API key passed to the last Authenticate call.
func (c *Client) APIKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

var _ ffbridge.Client = (*Client)(nil)
