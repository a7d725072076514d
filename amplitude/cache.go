package amplitude

import "context"

// Cache is an interface for a cache of remote evaluation results.
// You may want to provide an implementation using a library like github.com/hashicorp/golang-lru/v2.
// Values stored are map[string]experiment.Variant keyed by a digest of the user.
type Cache interface {
	// Set sets the value for the given key.
	Set(ctx context.Context, key string, value any) error
	// Get gets the value for the given key.
	Get(ctx context.Context, key string) (any, error)
}
