package amplitude

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amplitude/experiment-go-server/pkg/experiment"
	"github.com/go-logr/logr"
	"github.com/open-feature/go-sdk-contrib/providers/ffbridge"
)

// Client is an [ffbridge.Client] backed by the Amplitude Experiment SDK.
//
// Amplitude has no push channel, so while a listener is registered and
// streaming is enabled the client watches the flag snapshot for the target:
// it sends STREAM_START and an EVALUATION_RELOAD of every flag, then an
// EVALUATION_CHANGE for each flag whose value changed at every polling
// interval. A failed snapshot sends STREAM_END; the next good one sends
// STREAM_START and a fresh EVALUATION_RELOAD.
type Client struct {
	config Config
	logger logr.Logger

	mu        sync.Mutex
	eval      evaluator
	user      *experiment.User
	streaming bool
	interval  time.Duration
	listener  ffbridge.Listener
	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// New creates a new [Client]. Nothing is fetched until Authenticate.
func New(options ...Option) *Client {
	var config Config
	for _, option := range options {
		option(&config)
	}
	return &Client{
		config: config,
		logger: config.Logger.WithName("amplitude"),
	}
}

// Authenticate creates and starts the Amplitude SDK client with the
// deployment key and maps the target to an Amplitude user.
// The base URL becomes the SDK server URL and the polling interval the flag
// configuration poller interval; the other [ffbridge.ClientConfig] settings
// have no Amplitude counterpart.
//
// Authenticating again while a listener is registered restarts the watcher
// for the new target, starting with STREAM_START and a fresh
// EVALUATION_RELOAD.
func (c *Client) Authenticate(ctx context.Context, apiKey string, config ffbridge.ClientConfig, target ffbridge.Target) error {
	if apiKey == "" {
		return errors.New("you must provide a deployment key")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	user, err := toAmplitudeUser(target, c.config.getKeyMap())
	if err != nil {
		return err
	}

	eval, err := c.newEvaluator(apiKey, config)
	if err != nil {
		return err
	}
	if err := eval.Start(); err != nil {
		return fmt.Errorf("failed to start Amplitude client: %w", err)
	}

	c.mu.Lock()
	old := c.eval
	c.eval = eval
	c.user = user
	c.streaming = config.Streaming()
	c.interval = config.Polling()
	listener := c.listener
	stop, done := c.stopWatch, c.watchDone
	c.stopWatch, c.watchDone = nil, nil
	c.mu.Unlock()

	// A running watcher still holds the previous evaluator and user.
	if stop != nil {
		stop()
	}
	if done != nil {
		<-done
	}
	if old != nil && old != eval {
		if err := old.Stop(); err != nil {
			c.logger.Error(err, "failed to stop previous Amplitude client")
		}
	}

	if listener != nil {
		c.mu.Lock()
		if c.listener == listener && c.eval == eval && c.stopWatch == nil {
			c.startWatch(listener)
		}
		c.mu.Unlock()
	}
	return nil
}

// newEvaluator builds the local or remote evaluator for the configuration.
func (c *Client) newEvaluator(apiKey string, config ffbridge.ClientConfig) (evaluator, error) {
	if c.config.testEvaluator != nil {
		return c.config.testEvaluator, nil
	}

	switch {
	case c.config.LocalConfig != nil && c.config.RemoteConfig != nil:
		return nil, errors.New("you cannot configure the client to use both local and remote evaluation at the same time")
	case c.config.RemoteConfig != nil:
		remoteConfig := c.config.getRemoteConfig()
		if config.BaseURL != "" {
			remoteConfig.ServerUrl = config.BaseURL
		}
		return newEvaluatorRemote(apiKey, remoteConfig, c.config.RemoteEvaluationCache, c.logger), nil
	default:
		localConfig := c.config.getLocalConfig()
		if config.BaseURL != "" {
			localConfig.ServerUrl = config.BaseURL
		}
		if config.PollingInterval > 0 {
			localConfig.FlagConfigPollerInterval = config.PollingInterval
		}
		return newEvaluatorLocal(apiKey, localConfig), nil
	}
}

// StringVariation implements [ffbridge.Client].
func (c *Client) StringVariation(flag string, fallback string) string {
	variant, ok := c.variant(flag)
	if !ok {
		return fallback
	}
	return stringFromVariant(variant, fallback)
}

// BoolVariation implements [ffbridge.Client].
func (c *Client) BoolVariation(flag string, fallback bool) bool {
	variant, ok := c.variant(flag)
	if !ok {
		return fallback
	}
	return boolFromVariant(variant, fallback)
}

// NumberVariation implements [ffbridge.Client].
func (c *Client) NumberVariation(flag string, fallback float64) float64 {
	variant, ok := c.variant(flag)
	if !ok {
		return fallback
	}
	return numberFromVariant(variant, fallback)
}

// JSONVariation implements [ffbridge.Client].
func (c *Client) JSONVariation(flag string, fallback map[string]any) map[string]any {
	variant, ok := c.variant(flag)
	if !ok {
		return fallback
	}
	return documentFromVariant(variant, fallback)
}

// variant evaluates a single flag. It reports false when the client is not
// authenticated, the evaluation fails or the flag does not exist.
func (c *Client) variant(flag string) (experiment.Variant, bool) {
	c.mu.Lock()
	eval, user := c.eval, c.user
	c.mu.Unlock()
	if eval == nil {
		return experiment.Variant{}, false
	}

	variants, err := eval.Evaluate(context.Background(), user, []string{flag})
	if err != nil {
		c.logger.Error(err, "evaluation failed", "flag", flag)
		return experiment.Variant{}, false
	}
	variant, ok := variants[flag]
	return variant, ok
}

// RegisterEventsListener registers the listener. Only one listener can be
// registered, and only after a successful Authenticate.
func (c *Client) RegisterEventsListener(listener ffbridge.Listener) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if listener == nil || c.listener != nil || c.eval == nil {
		return false
	}
	c.listener = listener
	c.startWatch(listener)
	return true
}

// startWatch starts the watcher for the current evaluator and user when
// streaming is enabled. c.mu must be held.
func (c *Client) startWatch(listener ffbridge.Listener) {
	if !c.streaming {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.stopWatch = cancel
	c.watchDone = done
	go c.watch(ctx, done, listener, c.eval, c.user, c.interval)
}

// UnregisterEventsListener removes the listener and stops the watcher without
// waiting for it.
func (c *Client) UnregisterEventsListener(listener ffbridge.Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listener != listener {
		return
	}
	c.listener = nil
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
}

// Destroy stops the watcher, waits for it to exit and stops the SDK client.
func (c *Client) Destroy() error {
	c.mu.Lock()
	c.listener = nil
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
	done := c.watchDone
	c.watchDone = nil
	eval := c.eval
	c.eval = nil
	c.user = nil
	c.mu.Unlock()

	if done != nil {
		<-done
	}
	if eval != nil {
		return eval.Stop()
	}
	return nil
}

// watch sends the snapshot events described on [Client] until ctx is done.
func (c *Client) watch(ctx context.Context, done chan<- struct{}, listener ffbridge.Listener, eval evaluator, user *experiment.User, interval time.Duration) {
	defer close(done)

	deliver := func(event ffbridge.StatusEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		listener.OnStatusEvent(event)
		return true
	}

	var current map[string]ffbridge.Value
	refresh := func() {
		next, err := snapshot(ctx, eval, user)
		if err != nil {
			c.logger.Error(err, "flag snapshot failed")
			if current != nil && deliver(ffbridge.NewStreamEndEvent()) {
				current = nil
			}
			return
		}
		if current == nil {
			if deliver(ffbridge.NewStreamStartEvent()) && deliver(ffbridge.NewReloadEvent(evaluations(next))) {
				current = next
			}
			return
		}
		for _, e := range changed(current, next) {
			if !deliver(ffbridge.NewChangeEvent(e)) {
				return
			}
		}
		current = next
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// snapshot evaluates every flag for user.
func snapshot(ctx context.Context, eval evaluator, user *experiment.User) (map[string]ffbridge.Value, error) {
	variants, err := eval.Evaluate(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	values := make(map[string]ffbridge.Value, len(variants))
	for flag, variant := range variants {
		values[flag] = valueFromVariant(variant)
	}
	return values, nil
}

// evaluations returns the snapshot as evaluations sorted by flag.
func evaluations(values map[string]ffbridge.Value) []ffbridge.Evaluation {
	flags := make([]string, 0, len(values))
	for flag := range values {
		flags = append(flags, flag)
	}
	slices.Sort(flags)
	evals := make([]ffbridge.Evaluation, len(flags))
	for i, flag := range flags {
		evals[i] = ffbridge.Evaluation{Flag: flag, Value: values[flag]}
	}
	return evals
}

// changed returns the evaluations in next that are new or differ from prev,
// sorted by flag. Flags missing from next are not reported.
func changed(prev, next map[string]ffbridge.Value) []ffbridge.Evaluation {
	var out []ffbridge.Evaluation
	for _, e := range evaluations(next) {
		if old, ok := prev[e.Flag]; !ok || old != e.Value {
			out = append(out, e)
		}
	}
	return out
}

var _ ffbridge.Client = (*Client)(nil)
