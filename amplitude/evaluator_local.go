package amplitude

import (
	"context"

	"github.com/amplitude/experiment-go-server/pkg/experiment"
	"github.com/amplitude/experiment-go-server/pkg/experiment/local"
)

// evaluatorLocal wraps the Amplitude local evaluation client.
type evaluatorLocal struct {
	client *local.Client
}

// newEvaluatorLocal creates a local evaluator with the given deployment key and config.
// The client must be started by calling Start() before use.
func newEvaluatorLocal(deploymentKey string, config local.Config) *evaluatorLocal {
	return &evaluatorLocal{
		client: local.Initialize(deploymentKey, &config),
	}
}

// Start starts the local evaluation client, fetching flag configurations.
func (e *evaluatorLocal) Start() error {
	return e.client.Start()
}

// Stop stops the local evaluation client.
// The local client manages its own pollers and exposes no way to stop them.
func (e *evaluatorLocal) Stop() error {
	return nil
}

// Evaluate evaluates the given flags for the given user using local evaluation.
func (e *evaluatorLocal) Evaluate(_ context.Context, user *experiment.User, flagKeys []string) (map[string]experiment.Variant, error) {
	return e.client.EvaluateV2(user, flagKeys)
}
