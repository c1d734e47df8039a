package optimizer

import (
	"math"
	"math/rand/v2"

	"cooldown-planner/assign"
)

// minTemperature keeps the acceptance test finite once the schedule has
// cooled off.
const minTemperature = 1e-9

type moveKind int

const (
	moveAdd moveKind = iota
	moveRemove
	moveSwap
)

// move is one applied perturbation, kept so it can be undone.
type move struct {
	kind        moveKind
	in, out     assign.Assignment
	inAI, outAI int
}

// localSearch starts from the greedy set and perturbs it until the budget
// runs out. The run owns its rng, seeded from the config, and the
// temperature only depends on the step number, so a larger budget
// continues the same trajectory.
func (s *searcher) localSearch() {
	s.greedy()
	if s.budget.exhausted() {
		return
	}
	var open []int
	for ai, c := range s.cands {
		if len(c) > 0 {
			open = append(open, ai)
		}
	}
	if len(open) == 0 {
		return
	}

	rng := rand.New(rand.NewPCG(s.cfg.Seed, s.cfg.Seed^0x9e3779b97f4a7c15))
	temp := s.cfg.Temperature
	accepted := 0
	for s.budget.step() {
		mv, ok := s.perturb(rng, open)
		if ok {
			sc := s.eval()
			delta := sc - s.setScore
			if delta >= 0 || rng.Float64() < math.Exp(delta/temp) {
				s.setScore = sc
				s.offer(sc)
				accepted++
			} else {
				s.undo(mv)
			}
		}
		temp = max(temp*s.cfg.Cooling, minTemperature)
	}
	log.Debug("local search done", "score", s.bestScore, "assignments", len(s.best),
		"steps", s.budget.steps, "accepted", accepted)
}

// perturb applies one random move to the working set. It reports false
// when the drawn move was not applicable and nothing changed.
func (s *searcher) perturb(rng *rand.Rand, open []int) (move, bool) {
	kind := moveKind(rng.IntN(3))
	if len(s.set) == 0 {
		kind = moveAdd
	}
	switch kind {
	case moveAdd:
		ai := open[rng.IntN(len(open))]
		c := s.cands[ai][rng.IntN(len(s.cands[ai]))]
		if !s.canAdd(ai, c) {
			return move{}, false
		}
		s.push(ai, c)
		return move{kind: moveAdd, in: c, inAI: ai}, true

	case moveRemove:
		x := s.set[rng.IntN(len(s.set))]
		xi := s.m.AttackIndex(x.Attack)
		s.remove(xi, x)
		return move{kind: moveRemove, out: x, outAI: xi}, true

	default:
		x := s.set[rng.IntN(len(s.set))]
		xi := s.m.AttackIndex(x.Attack)
		ai := open[rng.IntN(len(open))]
		c := s.cands[ai][rng.IntN(len(s.cands[ai]))]
		if c.ID == x.ID {
			return move{}, false
		}
		s.remove(xi, x)
		if !s.canAdd(ai, c) {
			s.push(xi, x)
			return move{}, false
		}
		s.push(ai, c)
		return move{kind: moveSwap, in: c, inAI: ai, out: x, outAI: xi}, true
	}
}

func (s *searcher) undo(mv move) {
	switch mv.kind {
	case moveAdd:
		s.remove(mv.inAI, mv.in)
	case moveRemove:
		s.push(mv.outAI, mv.out)
	case moveSwap:
		s.remove(mv.inAI, mv.in)
		s.push(mv.outAI, mv.out)
	}
}
