package optimizer

import (
	"context"
	"time"
)

// checkEvery is how many steps pass between wall-clock and context checks.
const checkEvery = 64

// budget is a cooperative stop signal owned by one run.
type budget struct {
	ctx      context.Context
	maxIter  int
	deadline time.Time
	steps    int
	stopped  bool
}

func newBudget(ctx context.Context, b Budget, start time.Time) *budget {
	bg := &budget{ctx: ctx, maxIter: b.Iterations}
	if b.Time > 0 {
		bg.deadline = start.Add(b.Time)
	}
	return bg
}

// step consumes one step and reports whether the search may take it.
func (b *budget) step() bool {
	if b.stopped {
		return false
	}
	if b.maxIter > 0 && b.steps >= b.maxIter {
		b.stopped = true
		return false
	}
	b.steps++
	if b.steps%checkEvery == 0 {
		if b.ctx.Err() != nil || (!b.deadline.IsZero() && time.Now().After(b.deadline)) {
			b.stopped = true
			return false
		}
	}
	return true
}

func (b *budget) exhausted() bool { return b.stopped }
