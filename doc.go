// Package ffbridge exposes an external feature-flag evaluation client to a host
// application runtime.
//
// The evaluation client does all of the real work: authentication, flag
// evaluation, caching and streaming. The [Bridge] forwards host calls to it and
// relays its single stream of status events back to the host as named events.
//
// # Quick Start
//
//	emitter := ffbridge.NewChannelEmitter(16)
//	bridge, err := ffbridge.New(client, emitter)
//	if err != nil {
//	    panic(err)
//	}
//
//	ok, err := bridge.InitializeFromMaps(ctx, "your-api-key",
//	    map[string]any{"streamEnabled": true, "pollingInterval": 60},
//	    map[string]any{"identifier": "user-1", "name": "User One"},
//	)
//	if !ok {
//	    panic(err)
//	}
//	defer bridge.Destroy()
//
//	result := bridge.BoolVariationWithFallback("new-ui", false)
//
//	for event := range emitter.Events() {
//	    // event.Name is one of "evaluation_polling", "evaluation_change",
//	    // "start" or "end".
//	}
//
// # The Evaluation Client
//
// Any evaluation SDK can be bridged by implementing [Client]. The
// [github.com/open-feature/go-sdk-contrib/providers/ffbridge/amplitude] package
// provides one for Amplitude Experiment, and the fftest package an in-memory
// client for tests.
//
// # Host Events
//
// Each [StatusEvent] delivered by the client produces exactly one host event,
// in delivery order:
//
//   - EVALUATION_RELOAD: "evaluation_polling" with a []Record payload
//   - EVALUATION_CHANGE: "evaluation_change" with a Record payload
//   - STREAM_START: "start" with no payload
//   - STREAM_END: "end" with no payload
//
// Events pass through a bounded queue ([WithQueueSize]). When it is full the
// client's delivery goroutine blocks until the host catches up; events are
// never dropped while the bridge is registered. After [Bridge.Destroy] returns
// no further events reach the host.
//
// If the host emitter fails, for example with [ErrHostUnavailable], the error
// is logged, counted and passed to the handler set with [WithErrorHandler].
//
// # Hosts
//
// A host is anything implementing [Emitter]. This package provides
// [ChannelEmitter] for Go code, [SSEEmitter] for browsers and other
// server-sent events consumers, and [Provider], which exposes the bridge as an
// OpenFeature provider and turns host events into OpenFeature provider events.
//
// # Values
//
// Flag values are one of three shapes, modelled by [Value]: bool, number or
// string. Values of any other type are converted to their string
// representation; this is never an error.
package ffbridge
