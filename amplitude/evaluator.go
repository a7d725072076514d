package amplitude

import (
	"context"

	"github.com/amplitude/experiment-go-server/pkg/experiment"
)

// evaluator abstracts over the local and remote evaluation modes of the
// Amplitude Experiment SDK.
type evaluator interface {
	// Evaluate evaluates the given flags for the given user and returns a map
	// of flag keys to variants. If flagKeys is nil or empty, all flags are evaluated.
	Evaluate(ctx context.Context, user *experiment.User, flagKeys []string) (map[string]experiment.Variant, error)
	// Start starts the experiment client.
	Start() error
	// Stop stops the experiment client.
	Stop() error
}
