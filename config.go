package ffbridge

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-viper/mapstructure/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultQueueSize is the capacity of the event queue between the
	// client's delivery goroutine and the host emitter.
	DefaultQueueSize = 64
	// DefaultPollingInterval is the polling interval clients are expected to
	// use when [ClientConfig.PollingInterval] is zero.
	DefaultPollingInterval = 60 * time.Second
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ClientConfig configures the external evaluation client.
// Unset fields keep the client's defaults.
type ClientConfig struct {
	// StreamEnabled turns streaming updates on or off. Default true.
	StreamEnabled *bool
	// AnalyticsEnabled turns evaluation analytics on or off. Default true.
	AnalyticsEnabled *bool
	// BaseURL is the configuration API URL.
	BaseURL string
	// StreamURL is the server-sent events URL.
	StreamURL string
	// EventURL is the analytics events URL.
	EventURL string
	// PollingInterval is how often the client polls for flag changes.
	// Zero means [DefaultPollingInterval].
	PollingInterval time.Duration
}

// Streaming reports whether streaming is enabled, applying the default.
func (c ClientConfig) Streaming() bool {
	return c.StreamEnabled == nil || *c.StreamEnabled
}

// Analytics reports whether analytics are enabled, applying the default.
func (c ClientConfig) Analytics() bool {
	return c.AnalyticsEnabled == nil || *c.AnalyticsEnabled
}

// Polling returns the polling interval, applying the default.
func (c ClientConfig) Polling() time.Duration {
	if c.PollingInterval == 0 {
		return DefaultPollingInterval
	}
	return c.PollingInterval
}

// Validate checks URLs and the polling interval.
func (c ClientConfig) Validate() error {
	for name, raw := range map[string]string{
		"baseURL":   c.BaseURL,
		"streamURL": c.StreamURL,
		"eventURL":  c.EventURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidConfig, name, raw)
		}
	}
	if c.PollingInterval < 0 {
		return fmt.Errorf("%w: pollingInterval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// rawOptions mirrors the option map a host passes to initialize.
type rawOptions struct {
	StreamEnabled    *bool    `mapstructure:"streamEnabled"`
	AnalyticsEnabled *bool    `mapstructure:"analyticsEnabled"`
	BaseURL          *string  `mapstructure:"baseURL"`
	ConfigURL        *string  `mapstructure:"configUrl"`
	StreamURL        *string  `mapstructure:"streamURL"`
	EventURL         *string  `mapstructure:"eventURL"`
	PollingInterval  *float64 `mapstructure:"pollingInterval"`
}

// ParseOptions decodes a loosely-typed host option map into a [ClientConfig].
//
// Recognized keys are streamEnabled, analyticsEnabled, baseURL (or its alias
// configUrl), streamURL, eventURL and pollingInterval (in seconds). Unknown keys
// are ignored and absent keys keep their defaults. Values of the wrong type
// are errors.
func ParseOptions(options map[string]any) (ClientConfig, error) {
	var raw rawOptions
	if err := decode(options, &raw); err != nil {
		return ClientConfig{}, err
	}

	config := ClientConfig{
		StreamEnabled:    raw.StreamEnabled,
		AnalyticsEnabled: raw.AnalyticsEnabled,
	}
	switch {
	case raw.BaseURL != nil:
		config.BaseURL = *raw.BaseURL
	case raw.ConfigURL != nil:
		config.BaseURL = *raw.ConfigURL
	}
	if raw.StreamURL != nil {
		config.StreamURL = *raw.StreamURL
	}
	if raw.EventURL != nil {
		config.EventURL = *raw.EventURL
	}
	if raw.PollingInterval != nil {
		seconds := *raw.PollingInterval
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return ClientConfig{}, fmt.Errorf("%w: pollingInterval must be a positive number of seconds, got %v", ErrInvalidConfig, seconds)
		}
		config.PollingInterval = time.Duration(seconds * float64(time.Second))
	}

	if err := config.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return config, nil
}

// Target is the identity against which flags are evaluated.
type Target struct {
	Identifier string            `mapstructure:"identifier"`
	Name       string            `mapstructure:"name"`
	Anonymous  *bool             `mapstructure:"anonymous"`
	Attributes map[string]string `mapstructure:"attributes"`
}

// ParseTarget decodes a host target map. Recognized keys are identifier,
// name, anonymous and attributes.
func ParseTarget(target map[string]any) (Target, error) {
	var t Target
	if err := decode(target, &t); err != nil {
		return Target{}, err
	}
	return t, nil
}

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Config contains the configuration for a [Bridge].
type Config struct {
	// Logger receives lifecycle and relay logs. The zero value discards.
	Logger logr.Logger
	// QueueSize is the capacity of the event queue. Defaults to [DefaultQueueSize].
	QueueSize int
	// Registerer receives the bridge's Prometheus collectors. Optional.
	Registerer prometheus.Registerer
	// ErrorHandler is called with every error raised while relaying events,
	// such as a host emitter that is not available. Optional.
	ErrorHandler func(error)
	// ErrorEvents enables the [EventError] host event.
	ErrorEvents bool
}

// Option is a function that configures the Config.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithQueueSize sets the capacity of the event queue.
// Values below 1 keep the default.
func WithQueueSize(size int) Option {
	return func(c *Config) {
		c.QueueSize = size
	}
}

// WithRegisterer registers the bridge's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = reg
	}
}

// WithErrorHandler sets the handler for relay errors.
func WithErrorHandler(handler func(error)) Option {
	return func(c *Config) {
		c.ErrorHandler = handler
	}
}

// WithErrorEvents makes the bridge emit an [EventError] host event when the
// client rejects its listener or delivers a status event that cannot be
// relayed.
func WithErrorEvents() Option {
	return func(c *Config) {
		c.ErrorEvents = true
	}
}

// getQueueSize returns the queue size, or [DefaultQueueSize] if unset.
func (c *Config) getQueueSize() int {
	if c.QueueSize < 1 {
		c.QueueSize = DefaultQueueSize
	}
	return c.QueueSize
}
