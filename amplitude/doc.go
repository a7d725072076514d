// Package amplitude bridges Amplitude Experiment (https://amplitude.com/docs/experiment)
// through ffbridge.
//
// It wraps the Amplitude Experiment Go SDK
// (https://amplitude.com/docs/sdks/experiment-sdks/experiment-go) as an
// [ffbridge.Client] and supports both local and remote evaluation modes.
//
// # Quick Start
//
//	client := amplitude.New()
//	bridge, err := ffbridge.New(client, emitter)
//	if err != nil {
//	    panic(err)
//	}
//	err = bridge.Initialize(ctx, "your-deployment-key", ffbridge.ClientConfig{},
//	    ffbridge.Target{Identifier: "user-123"})
//
// # Local vs Remote Evaluation
//
// Local Evaluation (default): the SDK downloads all flag rules from the server
// and evaluates them locally. Use [WithLocalConfig] to configure it.
//
// Remote Evaluation: the SDK makes a round-trip to Amplitude servers for each
// evaluation. Use [WithRemoteConfig] to enable it and [WithRemoteEvaluationCache]
// to avoid redundant fetches for the same user.
//
// # Target Mapping
//
// The target identifier becomes the Amplitude user_id and the target name the
// "name" user property. Target attributes matching a key in the key map
// ([DefaultKeyMap] unless [WithKeyMap] is used) set the corresponding
// Amplitude user field; for example "device_id", "deviceId" and "DeviceID"
// all set device_id. Other attributes become user properties.
//
// # Payload Typing
//
// Each Amplitude variant can carry a JSON payload, interpreted per variation:
//
//   - BoolVariation: a boolean payload, otherwise true for any variant but "off"
//   - StringVariation: a string payload, otherwise the variant value
//   - NumberVariation: a number payload or a numeric string
//   - JSONVariation: an object payload
//
// The "off" variant, a missing flag, or a payload of the wrong type returns
// the fallback.
package amplitude
