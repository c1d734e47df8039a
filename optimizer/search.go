// Package optimizer searches the space of assignment sets for a fight and
// packages the best valid set it finds as a Plan.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cooldown-planner/assign"
	"cooldown-planner/checker"
	"cooldown-planner/fight"
	"cooldown-planner/score"
)

var log = slog.Default()

// SetLogger replaces the package logger. Call before starting searches.
func SetLogger(l *slog.Logger) {
	if l != nil {
		log = l
	}
}

// ── Searcher ────────────────────────────────────────────────────────

// searcher owns one run's working set. The model is shared read-only.
type searcher struct {
	m      *fight.Model
	cfg    Config
	obj    score.Objective
	budget *budget

	// per attack index: matching candidates in roster order, and the cap
	cands [][]assign.Assignment
	caps  []int

	// working set
	set      []assign.Assignment
	inSet    map[string]int
	perAtk   []int
	tracker  *checker.Tracker
	setScore float64

	best      []assign.Assignment
	bestScore float64
}

func newSearcher(ctx context.Context, m *fight.Model, cfg Config, obj score.Objective, start time.Time) *searcher {
	s := &searcher{
		m:       m,
		cfg:     cfg,
		obj:     obj,
		budget:  newBudget(ctx, cfg.Budget, start),
		inSet:   make(map[string]int),
		perAtk:  make([]int, len(m.Attacks())),
		tracker: checker.NewTracker(m),
	}
	s.buildCandidates()
	s.setScore = obj.Baseline(m)
	s.bestScore = s.setScore
	return s
}

func (s *searcher) buildCandidates() {
	attacks := s.m.Attacks()
	s.cands = make([][]assign.Assignment, len(attacks))
	s.caps = make([]int, len(attacks))
	for i := range attacks {
		a := &attacks[i]
		s.caps[i] = a.Need.Count
		if s.cfg.MaxPerAttack > 0 {
			s.caps[i] = s.cfg.MaxPerAttack
		}
		for _, capa := range s.m.Capabilities() {
			spell, _ := s.m.Spell(capa.Spell)
			if a.Matches(spell) {
				s.cands[i] = append(s.cands[i], assign.New(capa.Character, capa.Spell, a.ID, 0))
			}
		}
	}
}

func (s *searcher) numCandidates() int {
	n := 0
	for _, c := range s.cands {
		n += len(c)
	}
	return n
}

// ── Working set management ──────────────────────────────────────────

func (s *searcher) contains(a assign.Assignment) bool {
	_, ok := s.inSet[a.ID]
	return ok
}

// canAdd reports whether a may join the working set.
func (s *searcher) canAdd(ai int, a assign.Assignment) bool {
	return !s.contains(a) && s.perAtk[ai] < s.caps[ai] && s.tracker.Fits(a)
}

func (s *searcher) push(ai int, a assign.Assignment) {
	s.inSet[a.ID] = len(s.set)
	s.set = append(s.set, a)
	s.perAtk[ai]++
	s.tracker.Add(a)
}

// remove drops a by swapping the last element into its place.
func (s *searcher) remove(ai int, a assign.Assignment) {
	i, ok := s.inSet[a.ID]
	if !ok {
		return
	}
	last := len(s.set) - 1
	if i != last {
		s.set[i] = s.set[last]
		s.inSet[s.set[i].ID] = i
	}
	s.set = s.set[:last]
	delete(s.inSet, a.ID)
	s.perAtk[ai]--
	s.tracker.Remove(a)
}

func (s *searcher) eval() float64 {
	return s.obj.Score(s.m, s.set)
}

// offer records the working set as best if it strictly improves on it.
func (s *searcher) offer(sc float64) {
	if sc > s.bestScore || (s.best == nil && len(s.set) > 0 && sc >= s.bestScore) {
		s.bestScore = sc
		s.best = assign.Clone(s.set)
	}
}

// ── Main entry point ────────────────────────────────────────────────

// Optimize searches m with the configured strategy and returns the best
// valid plan found. It fails only for a nil model or an invalid config;
// an infeasible fight or an exhausted budget still yields a plan.
func Optimize(ctx context.Context, m *fight.Model, cfg Config) (*Plan, error) {
	if m == nil {
		return nil, errors.New("optimize: nil fight model")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	obj, err := score.Compile(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	start := time.Now()
	if cfg.Observer != nil {
		cfg.Observer.RunStarted(cfg.Strategy)
	}
	s := newSearcher(ctx, m, cfg, obj, start)
	log.Debug("optimize start", "fight", m.ID(), "strategy", cfg.Strategy,
		"attacks", len(m.Attacks()), "candidates", s.numCandidates())

	switch cfg.Strategy {
	case Greedy:
		s.greedy()
	case Exhaustive:
		s.exhaustive()
	case LocalSearch:
		s.localSearch()
	}

	plan := assemble(m, obj, s.best, runStats{
		strategy:  cfg.Strategy,
		steps:     s.budget.steps,
		exhausted: s.budget.exhausted(),
		elapsed:   time.Since(start),
	})
	log.Debug("optimize done", "fight", m.ID(), "strategy", cfg.Strategy,
		"score", plan.Score, "assignments", len(plan.Assignments),
		"steps", plan.Iterations, "exhausted", plan.Exhausted, "elapsed", plan.Elapsed)
	if cfg.Observer != nil {
		cfg.Observer.RunFinished(plan)
	}
	return plan, nil
}
