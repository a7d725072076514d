package amplitude

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/amplitude/experiment-go-server/pkg/experiment"
	"github.com/amplitude/experiment-go-server/pkg/experiment/remote"
	"github.com/cespare/xxhash/v2"
	"github.com/go-logr/logr"
)

// remoteFetcher is the part of the remote evaluation client used by evaluatorRemote.
type remoteFetcher interface {
	FetchV2(user *experiment.User) (map[string]experiment.Variant, error)
}

// evaluatorRemote wraps the Amplitude remote evaluation client.
type evaluatorRemote struct {
	fetcher remoteFetcher
	cache   Cache
	logger  logr.Logger
}

// newEvaluatorRemote creates a remote evaluator with the given deployment key and config.
func newEvaluatorRemote(deploymentKey string, config remote.Config, cache Cache, logger logr.Logger) *evaluatorRemote {
	return &evaluatorRemote{
		fetcher: remote.Initialize(deploymentKey, &config),
		cache:   cache,
		logger:  logger,
	}
}

// Start is a no-op: remote evaluation fetches per request.
func (e *evaluatorRemote) Start() error {
	return nil
}

// Stop is a no-op.
func (e *evaluatorRemote) Stop() error {
	return nil
}

// Evaluate evaluates the given flags for the given user using remote evaluation.
// Remote evaluation fetches all variants for the user; flagKeys is ignored.
func (e *evaluatorRemote) Evaluate(ctx context.Context, user *experiment.User, _ []string) (map[string]experiment.Variant, error) {
	var cacheKey string
	if e.cache != nil {
		key, err := userCacheKey(user)
		if err != nil {
			return nil, err
		}
		cacheKey = key
		cached, err := e.cache.Get(ctx, cacheKey)
		if err != nil {
			e.logger.Error(err, "remote evaluation cache get failed")
		} else if variants, ok := cached.(map[string]experiment.Variant); ok {
			return variants, nil
		}
	}

	variants, err := e.fetcher.FetchV2(user)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, cacheKey, variants); err != nil {
			e.logger.Error(err, "remote evaluation cache set failed")
		}
	}
	return variants, nil
}

// userCacheKey returns an xxhash digest of the JSON-encoded user.
func userCacheKey(user *experiment.User) (string, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("failed to encode user to create cache key: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}
