package ffbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

var (
	// ErrNilClient is returned by [New] when no client is given.
	ErrNilClient = errors.New("you must provide an evaluation client")
	// ErrNilEmitter is returned by [New] when no host emitter is given.
	ErrNilEmitter = errors.New("you must provide a host emitter")
	// ErrListenerRejected is returned by [Bridge.Initialize] when the client
	// refuses the bridge's event listener.
	ErrListenerRejected = errors.New("client rejected the events listener")
	// ErrUnknownEvent is reported for status events without a known type.
	ErrUnknownEvent = errors.New("unknown status event")
)

type state uint8

const (
	stateUnregistered state = iota
	stateRegistered
	stateDestroyed
)

func (s state) String() string {
	switch s {
	case stateUnregistered:
		return "unregistered"
	case stateRegistered:
		return "registered"
	case stateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Bridge translates host calls into calls on an external evaluation [Client]
// and relays the client's status events to a host [Emitter].
//
// Initialize and Destroy are serialized. Variation calls delegate directly to
// the client and may run concurrently with anything.
type Bridge struct {
	client  Client
	emitter Emitter
	config  Config
	logger  logr.Logger
	metrics *metrics

	mu    sync.Mutex
	state state
	relay *relay
}

// New creates a new [Bridge] over client, emitting host events to emitter.
func New(client Client, emitter Emitter, options ...Option) (*Bridge, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if emitter == nil {
		return nil, ErrNilEmitter
	}

	var config Config
	for _, option := range options {
		option(&config)
	}
	config.getQueueSize()

	m, err := newMetrics(config.Registerer)
	if err != nil {
		return nil, err
	}

	return &Bridge{
		client:  client,
		emitter: emitter,
		config:  config,
		logger:  config.Logger.WithName("ffbridge"),
		metrics: m,
		state:   stateUnregistered,
	}, nil
}

// Initialize authenticates the client for target and, on success, registers
// the bridge as the client's only events listener. A nil error means the
// client reported success.
//
// Calling Initialize again re-authenticates without registering a second
// listener. Initialize after [Bridge.Destroy] starts a new session.
func (b *Bridge) Initialize(ctx context.Context, apiKey string, config ClientConfig, target Target) error {
	if err := config.Validate(); err != nil {
		b.metrics.initializations.WithLabelValues("invalid").Inc()
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	log := b.logger.WithValues("target", target.Identifier)
	if err := b.client.Authenticate(ctx, apiKey, config, target); err != nil {
		b.metrics.initializations.WithLabelValues("failure").Inc()
		log.Error(err, "authentication failed")
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if b.state == stateRegistered {
		b.metrics.initializations.WithLabelValues("success").Inc()
		log.Info("re-authenticated, events listener already registered")
		return nil
	}

	r := newRelay(b)
	if !b.client.RegisterEventsListener(r) {
		r.stop()
		b.metrics.initializations.WithLabelValues("failure").Inc()
		log.Error(ErrListenerRejected, "events listener has not been registered")
		b.emitError(ctx, ErrListenerRejected)
		return ErrListenerRejected
	}
	b.relay = r
	b.state = stateRegistered
	b.metrics.initializations.WithLabelValues("success").Inc()
	log.Info("events listener has been registered", "session", r.id)
	return nil
}

// InitializeFromMaps decodes the host's option and target maps with
// [ParseOptions] and [ParseTarget], then calls [Bridge.Initialize]. It reports
// the success flag alongside the reason for a failure.
func (b *Bridge) InitializeFromMaps(ctx context.Context, apiKey string, options, target map[string]any) (bool, error) {
	config, err := ParseOptions(options)
	if err != nil {
		b.rejectMaps(err, "invalid options")
		return false, err
	}
	t, err := ParseTarget(target)
	if err != nil {
		b.rejectMaps(err, "invalid target")
		return false, err
	}
	if err := b.Initialize(ctx, apiKey, config, t); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Bridge) rejectMaps(err error, msg string) {
	b.metrics.initializations.WithLabelValues("invalid").Inc()
	b.logger.Error(err, msg)
}

// Destroy unregisters the bridge's listener, stops relaying and tears down the
// client. No event reaches the host after Destroy returns; events still queued
// are discarded. Calling Destroy more than once is a no-op.
//
// Destroy waits for the relay goroutine, so it must not be called from inside
// [Emitter.Emit].
func (b *Bridge) Destroy() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateDestroyed {
		return nil
	}
	prev := b.state
	if b.relay != nil {
		b.client.UnregisterEventsListener(b.relay)
		b.relay.stop()
		b.relay = nil
	}
	b.state = stateDestroyed
	b.logger.Info("destroyed", "previousState", prev.String())

	if err := b.client.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy client: %w", err)
	}
	return nil
}

// StringVariation returns the string value of flag with an empty fallback.
func (b *Bridge) StringVariation(flag string) Evaluation {
	return b.StringVariationWithFallback(flag, "")
}

// StringVariationWithFallback returns the string value of flag, or fallback.
func (b *Bridge) StringVariationWithFallback(flag string, fallback string) Evaluation {
	if !b.validFlag(flag) {
		return Evaluation{Flag: flag, Value: StringValue(fallback)}
	}
	return Evaluation{Flag: flag, Value: StringValue(b.client.StringVariation(flag, fallback))}
}

// BoolVariation returns the boolean value of flag with a false fallback.
func (b *Bridge) BoolVariation(flag string) Evaluation {
	return b.BoolVariationWithFallback(flag, false)
}

// BoolVariationWithFallback returns the boolean value of flag, or fallback.
func (b *Bridge) BoolVariationWithFallback(flag string, fallback bool) Evaluation {
	if !b.validFlag(flag) {
		return Evaluation{Flag: flag, Value: BoolValue(fallback)}
	}
	return Evaluation{Flag: flag, Value: BoolValue(b.client.BoolVariation(flag, fallback))}
}

// NumberVariation returns the numeric value of flag with a zero fallback.
func (b *Bridge) NumberVariation(flag string) Evaluation {
	return b.NumberVariationWithFallback(flag, 0)
}

// NumberVariationWithFallback returns the numeric value of flag, or fallback.
func (b *Bridge) NumberVariationWithFallback(flag string, fallback float64) Evaluation {
	if !b.validFlag(flag) {
		return Evaluation{Flag: flag, Value: NumberValue(fallback)}
	}
	return Evaluation{Flag: flag, Value: NumberValue(b.client.NumberVariation(flag, fallback))}
}

// JSONVariation returns the document value of flag with an empty fallback.
func (b *Bridge) JSONVariation(flag string) (JSONResult, error) {
	return b.JSONVariationWithFallback(flag, nil)
}

// JSONVariationWithFallback returns the document value of flag, or fallback,
// encoded as a JSON string. A nil fallback is the empty document.
func (b *Bridge) JSONVariationWithFallback(flag string, fallback map[string]any) (JSONResult, error) {
	if fallback == nil {
		fallback = map[string]any{}
	}
	doc := fallback
	if b.validFlag(flag) {
		doc = b.client.JSONVariation(flag, fallback)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return JSONResult{}, fmt.Errorf("failed to encode JSON variation for %s: %w", flag, err)
	}
	return JSONResult{Value: string(raw)}, nil
}

func (b *Bridge) validFlag(flag string) bool {
	if flag == "" {
		b.logger.Info("empty flag identifier, returning fallback")
		return false
	}
	return true
}

// emitError sends err to the host as an [EventError] when error events are
// enabled.
func (b *Bridge) emitError(ctx context.Context, err error) {
	if !b.config.ErrorEvents {
		return
	}
	if emitErr := b.emitter.Emit(ctx, EventError, err.Error()); emitErr != nil {
		b.logger.Error(emitErr, "cannot emit error event", "cause", err.Error())
	}
}

// reportError logs a relay error and hands it to the configured handler.
func (b *Bridge) reportError(err error, msg string, keysAndValues ...any) {
	b.logger.Error(err, msg, keysAndValues...)
	if b.config.ErrorHandler != nil {
		b.config.ErrorHandler(err)
	}
}

// relay is one registration of the bridge with the client. It is the
// [Listener] handed to the client and owns the queue and pump goroutine.
type relay struct {
	id     string
	bridge *Bridge
	queue  chan StatusEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newRelay(b *Bridge) *relay {
	ctx, cancel := context.WithCancel(context.Background())
	r := &relay{
		id:     uuid.NewString(),
		bridge: b,
		queue:  make(chan StatusEvent, b.config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// OnStatusEvent enqueues the event. It blocks while the queue is full and
// discards the event once the relay is stopped.
func (r *relay) OnStatusEvent(event StatusEvent) {
	select {
	case <-r.ctx.Done():
		r.bridge.metrics.discarded.Inc()
		return
	default:
	}
	select {
	case r.queue <- event:
		// The pump may already have drained the queue and exited.
		if r.ctx.Err() != nil {
			r.discardQueued()
		}
	case <-r.ctx.Done():
		r.bridge.metrics.discarded.Inc()
	}
}

// stop cancels the relay and waits for the pump to exit. Events still queued
// are discarded.
func (r *relay) stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *relay) run() {
	defer r.wg.Done()
	defer r.discardQueued()
	for {
		select {
		case <-r.ctx.Done():
			return
		case event := <-r.queue:
			if r.ctx.Err() != nil {
				r.bridge.metrics.discarded.Inc()
				return
			}
			r.dispatch(event)
		}
	}
}

// discardQueued empties the queue without blocking, counting each event.
func (r *relay) discardQueued() {
	for {
		select {
		case <-r.queue:
			r.bridge.metrics.discarded.Inc()
		default:
			return
		}
	}
}

func (r *relay) dispatch(event StatusEvent) {
	b := r.bridge
	name, payload, err := translate(event)
	if err != nil {
		b.reportError(err, "cannot relay status event", "type", event.Type().String())
		b.emitError(r.ctx, err)
		return
	}

	b.logger.V(1).Info("relaying event", "event", name, "session", r.id)
	if err := b.emitter.Emit(r.ctx, name, payload); err != nil {
		if r.ctx.Err() != nil {
			b.metrics.discarded.Inc()
			return
		}
		b.metrics.emitFailures.WithLabelValues(name).Inc()
		b.reportError(fmt.Errorf("failed to emit %s: %w", name, err), "cannot emit host event", "event", name)
		return
	}
	b.metrics.relayed.WithLabelValues(name).Inc()
}

// translate maps a status event to a host event name and payload.
func translate(event StatusEvent) (string, any, error) {
	switch event.Type() {
	case EvaluationReload:
		evals := event.Evaluations()
		records := make([]Record, len(evals))
		for i, e := range evals {
			records[i] = e.Record()
		}
		return EventEvaluationPolling, records, nil
	case EvaluationChange:
		e, ok := event.Evaluation()
		if !ok {
			return "", nil, fmt.Errorf("%w: change event without evaluation", ErrUnknownEvent)
		}
		return EventEvaluationChange, e.Record(), nil
	case StreamStart:
		return EventStart, nil, nil
	case StreamEnd:
		return EventEnd, nil, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event.Type())
}
