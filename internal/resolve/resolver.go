package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-hub/internal/provider"
)

// ErrNoProvider is the sentinel returned when every adapter for a
// capability failed or was unavailable.
var ErrNoProvider = errors.New("no provider available")

// Attempt is one adapter in a capability's fallback order.
type Attempt struct {
	Name      string
	Available func() bool
	Run       func(ctx context.Context) (provider.Result, error)
}

type Resolver struct {
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Resolver {
	return &Resolver{log: log}
}

// Resolve invokes attempts in order and short-circuits on the first
// success. A failed adapter is not retried within the pass, and no
// failure state survives into the next pass.
func (r *Resolver) Resolve(ctx context.Context, capability string, attempts []Attempt) (provider.Result, error) {
	rid := uuid.NewString()[:8]
	for _, a := range attempts {
		if a.Available != nil && !a.Available() {
			r.log.Debugw("provider unavailable",
				"resolution", rid, "capability", capability, "provider", a.Name)
			continue
		}
		res, err := a.Run(ctx)
		if err != nil {
			r.log.Warnw("provider failed",
				"resolution", rid, "capability", capability, "provider", a.Name, "err", err)
			continue
		}
		r.log.Infow("provider resolved",
			"resolution", rid, "capability", capability, "provider", a.Name)
		return res, nil
	}
	return provider.Result{}, fmt.Errorf("%s: %w", capability, ErrNoProvider)
}
