package amplitude

import (
	"github.com/amplitude/experiment-go-server/pkg/experiment/local"
	"github.com/amplitude/experiment-go-server/pkg/experiment/remote"
	"github.com/go-logr/logr"
)

// Config contains the configuration for the Amplitude evaluation client.
// Either LocalConfig or RemoteConfig should be set, but not both.
// If neither is set, local evaluation with default settings is used.
//
// Settings carried by [ffbridge.ClientConfig] at authentication time
// (base URL, polling interval) override the matching fields here.
type Config struct {
	// LocalConfig is optional configuration for local evaluation.
	// Local evaluation is the default behavior.
	LocalConfig *local.Config
	// RemoteConfig is optional configuration for remote evaluation.
	// If set, remote evaluation will be used.
	RemoteConfig *remote.Config
	// RemoteEvaluationCache is an optional cache for remote evaluation.
	// If set, the cache will be used to store the results of the evaluations.
	RemoteEvaluationCache Cache
	// KeyMap is a map of target attribute keys to the canonical key used by
	// Amplitude. Any keys that are not mapped are added to the
	// User.UserProperties map. If unset, [DefaultKeyMap] will be used.
	KeyMap map[string]Key
	// Logger receives watcher logs. The zero value discards.
	Logger logr.Logger

	// testEvaluator is an optional evaluator for testing.
	// When set, Authenticate will use it instead of creating a real SDK client.
	// This field is not part of the public API.
	testEvaluator evaluator
}

// Option is a function that configures the Config.
type Option func(*Config)

// WithLocalConfig sets the local configuration.
func WithLocalConfig(localConfig local.Config) Option {
	return func(c *Config) {
		c.LocalConfig = &localConfig
	}
}

// WithRemoteConfig sets the remote configuration.
func WithRemoteConfig(remoteConfig remote.Config) Option {
	return func(c *Config) {
		c.RemoteConfig = &remoteConfig
	}
}

// WithRemoteEvaluationCache sets the cache for remote evaluation.
// This will be used to cache the variants available for a given user,
// so subsequent evaluations for the same user don't need to
// re-fetch the variants from the server.
func WithRemoteEvaluationCache(cache Cache) Option {
	return func(c *Config) {
		c.RemoteEvaluationCache = cache
	}
}

// WithKeyMap sets the key map used to build the Amplitude user.
// If unset, [DefaultKeyMap] will be used.
func WithKeyMap(keyMap map[string]Key) Option {
	return func(c *Config) {
		c.KeyMap = keyMap
	}
}

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// getKeyMap returns the key map.
// If unset, [DefaultKeyMap] will be used.
func (c *Config) getKeyMap() map[string]Key {
	if c.KeyMap == nil {
		c.KeyMap = DefaultKeyMap()
	}
	return c.KeyMap
}

// getLocalConfig returns a copy of the local configuration.
func (c *Config) getLocalConfig() local.Config {
	if c.LocalConfig == nil {
		return local.Config{}
	}
	return *c.LocalConfig
}

// getRemoteConfig returns a copy of the remote configuration.
func (c *Config) getRemoteConfig() remote.Config {
	if c.RemoteConfig == nil {
		return remote.Config{}
	}
	return *c.RemoteConfig
}
