package amplitude

import (
	"context"
	"testing"
	"time"

	"github.com/amplitude/experiment-go-server/pkg/experiment/local"
	"github.com/amplitude/experiment-go-server/pkg/experiment/remote"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLocalConfig(t *testing.T) {
	localCfg := local.Config{
		Debug: true,
	}

	option := WithLocalConfig(localCfg)

	cfg := &Config{}
	option(cfg)

	require.NotNil(t, cfg.LocalConfig)
	assert.True(t, cfg.LocalConfig.Debug)
}

func TestWithRemoteConfig(t *testing.T) {
	remoteCfg := remote.Config{
		Debug: true,
	}

	option := WithRemoteConfig(remoteCfg)

	cfg := &Config{}
	option(cfg)

	require.NotNil(t, cfg.RemoteConfig)
	assert.True(t, cfg.RemoteConfig.Debug)
}

func TestWithRemoteEvaluationCache(t *testing.T) {
	cache := &mockCache{}

	option := WithRemoteEvaluationCache(cache)

	cfg := &Config{}
	option(cfg)

	assert.Equal(t, cache, cfg.RemoteEvaluationCache)
}

func TestWithKeyMap(t *testing.T) {
	keyMap := map[string]Key{"uid": KeyUserID}

	cfg := &Config{}
	WithKeyMap(keyMap)(cfg)

	assert.Equal(t, keyMap, cfg.getKeyMap())
}

func TestWithLogger(t *testing.T) {
	logger := logr.Discard()

	cfg := &Config{}
	WithLogger(logger)(cfg)

	assert.Equal(t, logger, cfg.Logger)
}

// mockCache is a simple mock implementation of the Cache interface
type mockCache struct {
	data map[string]any
}

func (m *mockCache) Set(_ context.Context, key string, value any) error {
	if m.data == nil {
		m.data = make(map[string]any)
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Get(_ context.Context, key string) (any, error) {
	if m.data == nil {
		return nil, nil
	}
	return m.data[key], nil
}

func TestConfig_getKeyMap(t *testing.T) {
	cfg := Config{}
	keyMap := cfg.getKeyMap()

	assert.Equal(t, DefaultKeyMap(), keyMap)
	assert.Equal(t, KeyDeviceID, keyMap["deviceId"])
	assert.NotNil(t, cfg.KeyMap)
}

func TestConfig_getLocalConfig(t *testing.T) {
	tests := []struct {
		name           string
		cfg            Config
		expectDebug    bool
		expectInterval time.Duration
	}{
		{
			name:        "nil LocalConfig returns empty config",
			cfg:         Config{},
			expectDebug: false,
		},
		{
			name: "returns configured LocalConfig",
			cfg: Config{
				LocalConfig: &local.Config{
					Debug:                    true,
					FlagConfigPollerInterval: time.Minute,
				},
			},
			expectDebug:    true,
			expectInterval: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.cfg.getLocalConfig()
			assert.Equal(t, tt.expectDebug, result.Debug)
			assert.Equal(t, tt.expectInterval, result.FlagConfigPollerInterval)
		})
	}
}

func TestConfig_getLocalConfig_ReturnsCopy(t *testing.T) {
	cfg := Config{LocalConfig: &local.Config{ServerUrl: "https://api.lab.amplitude.com"}}

	result := cfg.getLocalConfig()
	result.ServerUrl = "https://example.com"

	assert.Equal(t, "https://api.lab.amplitude.com", cfg.LocalConfig.ServerUrl)
}

func TestConfig_getRemoteConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectDebug bool
	}{
		{
			name:        "nil RemoteConfig returns empty config",
			cfg:         Config{},
			expectDebug: false,
		},
		{
			name: "returns configured RemoteConfig",
			cfg: Config{
				RemoteConfig: &remote.Config{
					Debug: true,
				},
			},
			expectDebug: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.cfg.getRemoteConfig()
			assert.Equal(t, tt.expectDebug, result.Debug)
		})
	}
}
