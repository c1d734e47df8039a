package optimizer

import "cooldown-planner/assign"

// gainEps absorbs float noise when comparing marginal scores.
const gainEps = 1e-12

// greedy walks attacks in timeline order and, for each, keeps adding the
// fitting candidate with the highest marginal score until the attack's
// cap is reached or nothing improves. Roster order breaks ties. No
// backtracking.
func (s *searcher) greedy() {
	attacks := s.m.Attacks()
	for ai := range attacks {
		for s.perAtk[ai] < s.caps[ai] {
			pick, gain, ok := s.bestMarginal(ai)
			if !ok {
				if s.budget.exhausted() {
					return
				}
				break
			}
			// the first answer to an attack is taken unless it costs score
			if gain <= gainEps && !(s.perAtk[ai] == 0 && gain >= -gainEps) {
				break
			}
			s.push(ai, pick)
			s.setScore = s.eval()
			s.offer(s.setScore)
		}
		if s.budget.exhausted() {
			return
		}
	}
	log.Debug("greedy done", "score", s.bestScore, "assignments", len(s.best), "steps", s.budget.steps)
}

// bestMarginal scores every fitting candidate of attack ai against the
// working set. It reports false when no candidate fits or the budget ran
// out before any was scored.
func (s *searcher) bestMarginal(ai int) (pick assign.Assignment, gain float64, ok bool) {
	base := s.setScore
	for _, c := range s.cands[ai] {
		if !s.canAdd(ai, c) {
			continue
		}
		if !s.budget.step() {
			return pick, gain, ok
		}
		s.push(ai, c)
		g := s.eval() - base
		s.remove(ai, c)
		if !ok || g > gain+gainEps {
			pick, gain, ok = c, g, true
		}
	}
	return pick, gain, ok
}
