package amplitude

import (
	"encoding/json"
	"strconv"

	"github.com/amplitude/experiment-go-server/pkg/experiment"
	"github.com/open-feature/go-sdk-contrib/providers/ffbridge"
)

// variantKeyOff is the variant key returned by Amplitude when a user
// is not included in a feature flag's rollout.
const variantKeyOff = "off"

// isOff reports whether the variant means "use the fallback".
func isOff(variant experiment.Variant) bool {
	return variant.Key == variantKeyOff || (variant.Key == "" && variant.Value == "")
}

// boolFromVariant follows the Amplitude convention for boolean flags:
// a boolean payload wins; otherwise any variant other than "off" is true.
func boolFromVariant(variant experiment.Variant, fallback bool) bool {
	if isOff(variant) {
		return fallback
	}
	if b, ok := variant.Payload.(bool); ok {
		return b
	}
	return true
}

// stringFromVariant returns a string payload, falling back to the variant
// value when there is no payload.
func stringFromVariant(variant experiment.Variant, fallback string) string {
	if isOff(variant) {
		return fallback
	}
	switch p := variant.Payload.(type) {
	case string:
		return p
	case nil:
		if variant.Value != "" {
			return variant.Value
		}
	}
	return fallback
}

// numberFromVariant returns a numeric payload. Numbers may also be sent as
// strings (e.g. to avoid floating point precision issues).
func numberFromVariant(variant experiment.Variant, fallback float64) float64 {
	if isOff(variant) {
		return fallback
	}
	switch p := variant.Payload.(type) {
	case float64:
		return p
	// The Amplitude SDK does not currently invoke `UseNumber` on the JSON decoder,
	// but if it starts doing it in the future we should handle it correctly.
	case json.Number:
		if f, err := p.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(p, 64); err == nil {
			return f
		}
	}
	return fallback
}

// documentFromVariant returns an object payload.
func documentFromVariant(variant experiment.Variant, fallback map[string]any) map[string]any {
	if isOff(variant) {
		return fallback
	}
	if doc, ok := variant.Payload.(map[string]any); ok {
		return doc
	}
	return fallback
}

// valueFromVariant converts a variant into a bridge value for status events.
// Variants without payload are represented by their value.
func valueFromVariant(variant experiment.Variant) ffbridge.Value {
	if variant.Payload != nil {
		return ffbridge.ValueOf(variant.Payload)
	}
	if variant.Key == variantKeyOff {
		return ffbridge.BoolValue(false)
	}
	return ffbridge.StringValue(variant.Value)
}
