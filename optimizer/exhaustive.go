package optimizer

// exhaustive enumerates, attack by attack, every subset of fitting
// candidates up to the attack's cap. Branches that assign are explored
// before the branch that skips, and the Tracker prunes any branch that
// would overdraw a charge. Every visited node is a valid set and is
// offered, so a run cut short still returns the best it has seen. Best is
// kept with a strict compare: a complete run is optimal and the first
// optimum found wins ties.
func (s *searcher) exhaustive() {
	s.dfs(0)
	log.Debug("exhaustive done", "score", s.bestScore, "assignments", len(s.best),
		"steps", s.budget.steps, "complete", !s.budget.exhausted())
}

func (s *searcher) dfs(ai int) {
	if !s.budget.step() {
		return
	}
	s.offer(s.eval())
	if ai == len(s.cands) {
		return
	}
	s.choose(ai, 0)
}

// choose extends attack ai's pick with candidates from index from onward,
// then hands over to the next attack.
func (s *searcher) choose(ai, from int) {
	for j := from; j < len(s.cands[ai]); j++ {
		c := s.cands[ai][j]
		if !s.canAdd(ai, c) {
			continue
		}
		s.push(ai, c)
		s.choose(ai, j+1)
		s.remove(ai, c)
		if s.budget.exhausted() {
			return
		}
	}
	s.dfs(ai + 1)
}
