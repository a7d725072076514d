package ffbridge

import (
	"context"
	"fmt"
	"sync"

	of "github.com/open-feature/go-sdk/openfeature"
)

const (
	providerName     = "FFBridge"
	providerNotReady = "FFBridge provider not ready"
	generalError     = "FFBridge general error"

	// targetNameAttribute is the evaluation context attribute mapped to
	// [Target.Name].
	targetNameAttribute = "name"
	// defaultEventBuffer is the capacity of the provider's event channel.
	defaultEventBuffer = 16
)

// Provider is an OpenFeature provider backed by a [Bridge]. It is also the
// bridge's host [Emitter]: status events relayed by the bridge come out of
// [Provider.EventChannel] as OpenFeature provider events.
type Provider struct {
	bridge *Bridge
	apiKey string
	config ClientConfig
	events chan of.Event

	mu    sync.RWMutex
	state of.State
}

// NewProvider creates a new [Provider] over client. The bridge options apply
// to the underlying [Bridge].
func NewProvider(client Client, apiKey string, config ClientConfig, options ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: you must provide an API key", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	provider := &Provider{
		apiKey: apiKey,
		config: config,
		events: make(chan of.Event, defaultEventBuffer),
		state:  of.NotReadyState,
	}
	bridge, err := New(client, provider, options...)
	if err != nil {
		return nil, err
	}
	provider.bridge = bridge
	return provider, nil
}

// Bridge returns the underlying bridge.
func (p *Provider) Bridge() *Bridge {
	return p.bridge
}

// Init initializes the bridge for the target described by evalCtx.
// The targeting key becomes the target identifier, the "name" attribute the
// target name, and other string attributes the target attributes.
func (p *Provider) Init(evalCtx of.EvaluationContext) error {
	err := p.bridge.Initialize(context.Background(), p.apiKey, p.config, targetFromContext(evalCtx))

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = of.ErrorState
		return err
	}
	p.state = of.ReadyState
	return nil
}

// Shutdown destroys the bridge. A failure is logged and passed to the error
// handler, as Shutdown cannot return it.
func (p *Provider) Shutdown() {
	if err := p.bridge.Destroy(); err != nil {
		p.bridge.reportError(err, "failed to shut down")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = of.NotReadyState
}

// Status returns the provider state.
func (p *Provider) Status() of.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// EventChannel returns the channel of provider events.
func (p *Provider) EventChannel() <-chan of.Event {
	return p.events
}

// Emit implements [Emitter] by converting host events to provider events.
func (p *Provider) Emit(ctx context.Context, name string, payload any) error {
	event := of.Event{ProviderName: providerName}
	switch name {
	case EventEvaluationPolling:
		records, ok := payload.([]Record)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", name, payload)
		}
		flags := make([]string, len(records))
		for i, r := range records {
			flags[i] = r.Flag
		}
		event.EventType = of.ProviderConfigChange
		event.ProviderEventDetails = of.ProviderEventDetails{
			Message:     "evaluations reloaded",
			FlagChanges: flags,
		}
	case EventEvaluationChange:
		record, ok := payload.(Record)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", name, payload)
		}
		event.EventType = of.ProviderConfigChange
		event.ProviderEventDetails = of.ProviderEventDetails{
			Message:     "evaluation changed",
			FlagChanges: []string{record.Flag},
		}
	case EventStart:
		event.EventType = of.ProviderReady
		event.ProviderEventDetails = of.ProviderEventDetails{Message: "stream started"}
		p.setStateIfNot(of.NotReadyState, of.ReadyState)
	case EventEnd:
		event.EventType = of.ProviderStale
		event.ProviderEventDetails = of.ProviderEventDetails{Message: "stream ended"}
		p.setStateIfNot(of.NotReadyState, of.StaleState)
	case EventError:
		message, _ := payload.(string)
		event.EventType = of.ProviderError
		event.ProviderEventDetails = of.ProviderEventDetails{Message: message}
	default:
		return fmt.Errorf("%w: host event %q", ErrUnknownEvent, name)
	}

	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// setStateIfNot sets the state unless it currently is skip.
func (p *Provider) setStateIfNot(skip, state of.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != skip {
		p.state = state
	}
}

// Hooks returns empty slice as provider does not have any hooks.
func (p *Provider) Hooks() []of.Hook {
	return []of.Hook{}
}

// Metadata returns value of Metadata (name of current service, exposed to openfeature sdk).
func (p *Provider) Metadata() of.Metadata {
	return of.Metadata{
		Name: providerName,
	}
}

// BooleanEvaluation evaluates a boolean feature flag.
// The evaluation context is ignored; the target is fixed at Init.
func (p *Provider) BooleanEvaluation(_ context.Context, flag string, defaultValue bool, _ of.FlattenedContext) of.BoolResolutionDetail {
	if resErr := p.readyError(); resErr != nil {
		return of.BoolResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(*resErr),
		}
	}
	value, _ := p.bridge.BoolVariationWithFallback(flag, defaultValue).Value.Bool()
	return of.BoolResolutionDetail{
		Value:                    value,
		ProviderResolutionDetail: cachedDetail(),
	}
}

// StringEvaluation evaluates a string feature flag.
func (p *Provider) StringEvaluation(_ context.Context, flag string, defaultValue string, _ of.FlattenedContext) of.StringResolutionDetail {
	if resErr := p.readyError(); resErr != nil {
		return of.StringResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(*resErr),
		}
	}
	return of.StringResolutionDetail{
		Value:                    p.bridge.StringVariationWithFallback(flag, defaultValue).Value.String(),
		ProviderResolutionDetail: cachedDetail(),
	}
}

// FloatEvaluation evaluates a float feature flag.
func (p *Provider) FloatEvaluation(_ context.Context, flag string, defaultValue float64, _ of.FlattenedContext) of.FloatResolutionDetail {
	if resErr := p.readyError(); resErr != nil {
		return of.FloatResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(*resErr),
		}
	}
	value, _ := p.bridge.NumberVariationWithFallback(flag, defaultValue).Value.Number()
	return of.FloatResolutionDetail{
		Value:                    value,
		ProviderResolutionDetail: cachedDetail(),
	}
}

// IntEvaluation evaluates an integer feature flag. Numbers are truncated.
func (p *Provider) IntEvaluation(_ context.Context, flag string, defaultValue int64, _ of.FlattenedContext) of.IntResolutionDetail {
	if resErr := p.readyError(); resErr != nil {
		return of.IntResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(*resErr),
		}
	}
	value, _ := p.bridge.NumberVariationWithFallback(flag, float64(defaultValue)).Value.Number()
	return of.IntResolutionDetail{
		Value:                    int64(value),
		ProviderResolutionDetail: cachedDetail(),
	}
}

// ObjectEvaluation evaluates an object/JSON feature flag. Only documents
// (map[string]any) are supported as default values; any other default is
// returned unchanged when the flag has no value.
func (p *Provider) ObjectEvaluation(_ context.Context, flag string, defaultValue any, _ of.FlattenedContext) of.InterfaceResolutionDetail {
	if resErr := p.readyError(); resErr != nil {
		return of.InterfaceResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(*resErr),
		}
	}

	fallback, _ := defaultValue.(map[string]any)
	result, err := p.bridge.JSONVariationWithFallback(flag, fallback)
	if err != nil {
		return of.InterfaceResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(of.NewGeneralResolutionError(err.Error())),
		}
	}
	doc, err := result.Document()
	if err != nil {
		return of.InterfaceResolutionDetail{
			Value:                    defaultValue,
			ProviderResolutionDetail: errorDetail(of.NewParseErrorResolutionError(err.Error())),
		}
	}
	if fallback == nil && len(doc) == 0 {
		return of.InterfaceResolutionDetail{
			Value: defaultValue,
			ProviderResolutionDetail: of.ProviderResolutionDetail{
				Reason: of.DefaultReason,
			},
		}
	}
	return of.InterfaceResolutionDetail{
		Value:                    doc,
		ProviderResolutionDetail: cachedDetail(),
	}
}

// readyError returns the appropriate resolution error based on provider state,
// or nil if the provider can evaluate flags.
func (p *Provider) readyError() *of.ResolutionError {
	switch p.Status() {
	case of.ReadyState, of.StaleState:
		return nil
	case of.NotReadyState:
		resErr := of.NewProviderNotReadyResolutionError(providerNotReady)
		return &resErr
	}
	resErr := of.NewGeneralResolutionError(generalError)
	return &resErr
}

func errorDetail(resErr of.ResolutionError) of.ProviderResolutionDetail {
	return of.ProviderResolutionDetail{
		ResolutionError: resErr,
		Reason:          of.ErrorReason,
	}
}

func cachedDetail() of.ProviderResolutionDetail {
	return of.ProviderResolutionDetail{
		Reason: of.CachedReason,
	}
}

// targetFromContext converts an OpenFeature evaluation context to a [Target].
func targetFromContext(evalCtx of.EvaluationContext) Target {
	target := Target{Identifier: evalCtx.TargetingKey()}
	for key, val := range evalCtx.Attributes() {
		s, ok := val.(string)
		if !ok {
			continue
		}
		if key == targetNameAttribute {
			target.Name = s
			continue
		}
		if target.Attributes == nil {
			target.Attributes = map[string]string{}
		}
		target.Attributes[key] = s
	}
	return target
}
