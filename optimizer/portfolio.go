package optimizer

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cooldown-planner/fight"
)

// Portfolio runs every config against the same model concurrently and
// returns the highest-scoring plan. The earliest config wins ties. All
// configs are validated before any search starts.
func Portfolio(ctx context.Context, m *fight.Model, cfgs ...Config) (*Plan, error) {
	if m == nil {
		return nil, errors.New("portfolio: nil fight model")
	}
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("%w: empty portfolio", ErrConfig)
	}
	for i, c := range cfgs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("portfolio[%d]: %w", i, err)
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	plans := make([]*Plan, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, c := range cfgs {
		g.Go(func() error {
			p, err := Optimize(gctx, m, c)
			if err != nil {
				return fmt.Errorf("portfolio[%d] %s: %w", i, c.Strategy, err)
			}
			plans[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := plans[0]
	for _, p := range plans[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	log.Debug("portfolio done", "fight", m.ID(), "runs", len(plans),
		"winner", best.Strategy, "score", best.Score)
	return best, nil
}
