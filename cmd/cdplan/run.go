package main

import (
	"context"
	"io"
	"log/slog"

	"cooldown-planner/fight"
	"cooldown-planner/optimizer"
)

// newLogger builds the process logger and hands it to the optimizer.
// Debug output carries search progress and is only on when verbose.
func newLogger(w io.Writer, verbose, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	l := slog.New(h)
	optimizer.SetLogger(l)
	return l
}

// solve runs a single config directly and several as a portfolio.
func solve(ctx context.Context, m *fight.Model, runs []optimizer.Config) (*optimizer.Plan, error) {
	if len(runs) == 1 {
		return optimizer.Optimize(ctx, m, runs[0])
	}
	return optimizer.Portfolio(ctx, m, runs...)
}
