package ffbridge

import (
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name        string
		options     map[string]any
		expected    ClientConfig
		expectError bool
	}{
		{
			name:     "nil map keeps defaults",
			options:  nil,
			expected: ClientConfig{},
		},
		{
			name:    "stream and polling only",
			options: map[string]any{"streamEnabled": true, "pollingInterval": 60},
			expected: ClientConfig{
				StreamEnabled:   boolPtr(true),
				PollingInterval: 60 * time.Second,
			},
		},
		{
			name: "every key",
			options: map[string]any{
				"streamEnabled":    false,
				"analyticsEnabled": false,
				"baseURL":          "https://config.example.com/api/1.0",
				"streamURL":        "https://stream.example.com/api/1.0",
				"eventURL":         "https://events.example.com/api/1.0",
				"pollingInterval":  1.5,
			},
			expected: ClientConfig{
				StreamEnabled:    boolPtr(false),
				AnalyticsEnabled: boolPtr(false),
				BaseURL:          "https://config.example.com/api/1.0",
				StreamURL:        "https://stream.example.com/api/1.0",
				EventURL:         "https://events.example.com/api/1.0",
				PollingInterval:  1500 * time.Millisecond,
			},
		},
		{
			name:     "configUrl is an alias of baseURL",
			options:  map[string]any{"configUrl": "https://config.example.com"},
			expected: ClientConfig{BaseURL: "https://config.example.com"},
		},
		{
			name: "baseURL wins over configUrl",
			options: map[string]any{
				"baseURL":   "https://base.example.com",
				"configUrl": "https://config.example.com",
			},
			expected: ClientConfig{BaseURL: "https://base.example.com"},
		},
		{
			name:     "unknown keys are ignored",
			options:  map[string]any{"debug": true, "cacheSize": 10},
			expected: ClientConfig{},
		},
		{
			name:        "wrong type for a boolean",
			options:     map[string]any{"streamEnabled": "true"},
			expectError: true,
		},
		{
			name:        "wrong type for a URL",
			options:     map[string]any{"baseURL": 8080},
			expectError: true,
		},
		{
			name:        "wrong type for the polling interval",
			options:     map[string]any{"pollingInterval": "60"},
			expectError: true,
		},
		{
			name:        "zero polling interval",
			options:     map[string]any{"pollingInterval": 0},
			expectError: true,
		},
		{
			name:        "negative polling interval",
			options:     map[string]any{"pollingInterval": -5},
			expectError: true,
		},
		{
			name:        "relative URL",
			options:     map[string]any{"eventURL": "/events"},
			expectError: true,
		},
		{
			name:        "unsupported scheme",
			options:     map[string]any{"streamURL": "ftp://stream.example.com"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseOptions(tt.options)
			if tt.expectError {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config)
		})
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name        string
		target      map[string]any
		expected    Target
		expectError bool
	}{
		{
			name:     "nil map",
			expected: Target{},
		},
		{
			name:     "identifier and name",
			target:   map[string]any{"identifier": "user-1", "name": "Ada"},
			expected: Target{Identifier: "user-1", Name: "Ada"},
		},
		{
			name: "anonymous with attributes",
			target: map[string]any{
				"identifier": "device-9",
				"anonymous":  true,
				"attributes": map[string]any{"country": "NZ", "plan": "pro"},
			},
			expected: Target{
				Identifier: "device-9",
				Anonymous:  boolPtr(true),
				Attributes: map[string]string{"country": "NZ", "plan": "pro"},
			},
		},
		{
			name:     "unknown keys are ignored",
			target:   map[string]any{"identifier": "user-1", "email": "ada@example.com"},
			expected: Target{Identifier: "user-1"},
		},
		{
			name:        "identifier of the wrong type",
			target:      map[string]any{"identifier": 1},
			expectError: true,
		},
		{
			name:        "attribute of the wrong type",
			target:      map[string]any{"attributes": map[string]any{"age": 40}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.target)
			if tt.expectError {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestClientConfig_Defaults(t *testing.T) {
	var config ClientConfig
	assert.True(t, config.Streaming())
	assert.True(t, config.Analytics())
	assert.Equal(t, DefaultPollingInterval, config.Polling())

	config = ClientConfig{
		StreamEnabled:    boolPtr(false),
		AnalyticsEnabled: boolPtr(false),
		PollingInterval:  5 * time.Second,
	}
	assert.False(t, config.Streaming())
	assert.False(t, config.Analytics())
	assert.Equal(t, 5*time.Second, config.Polling())
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      ClientConfig
		expectError bool
	}{
		{name: "empty", config: ClientConfig{}},
		{name: "http URLs", config: ClientConfig{BaseURL: "http://localhost:8080", StreamURL: "https://s.example.com"}},
		{name: "missing host", config: ClientConfig{BaseURL: "https://"}, expectError: true},
		{name: "unparsable", config: ClientConfig{EventURL: "http://[::1"}, expectError: true},
		{name: "negative interval", config: ClientConfig{PollingInterval: -time.Second}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	logger := logr.Discard()
	var handled error
	handler := func(err error) { handled = err }

	cfg := &Config{}
	for _, option := range []Option{
		WithLogger(logger),
		WithQueueSize(8),
		WithRegisterer(reg),
		WithErrorHandler(handler),
	} {
		option(cfg)
	}

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, 8, cfg.getQueueSize())
	assert.Equal(t, reg, cfg.Registerer)
	require.NotNil(t, cfg.ErrorHandler)
	cfg.ErrorHandler(ErrHostUnavailable)
	assert.Equal(t, ErrHostUnavailable, handled)
}

func TestConfig_getQueueSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{name: "unset uses default", size: 0, expected: DefaultQueueSize},
		{name: "negative uses default", size: -1, expected: DefaultQueueSize},
		{name: "explicit size", size: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{QueueSize: tt.size}
			assert.Equal(t, tt.expected, cfg.getQueueSize())
		})
	}
}
