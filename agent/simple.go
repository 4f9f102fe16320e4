package agent

import (
	"sync"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"

	"golang.org/x/exp/rand"
)

// FirstFit plays the leftmost legal column
type FirstFit struct {
	base
}

func NewFirstFit(index int) *FirstFit {
	return &FirstFit{base: newBase(index)}
}

func (f *FirstFit) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.NoMove, metrics.SearchMetric{Algorithm: "firstfit"}
	}
	return actions[0], metrics.SearchMetric{Algorithm: "firstfit"}
}

// FirstFitRight plays the rightmost legal column
type FirstFitRight struct {
	base
}

func NewFirstFitRight(index int) *FirstFitRight {
	return &FirstFitRight{base: newBase(index)}
}

func (f *FirstFitRight) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.NoMove, metrics.SearchMetric{Algorithm: "firstfitright"}
	}
	return actions[len(actions)-1], metrics.SearchMetric{Algorithm: "firstfitright"}
}

// randomSource is a seeded generator safe for concurrent use
type randomSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newRandomSource(seed uint64) *randomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &randomSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randomSource) pick(columns []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return columns[s.r.Intn(len(columns))]
}

// Random plays a legal column chosen uniformly at random
type Random struct {
	base
	random *randomSource
}

// NewRandom creates a random agent; a zero seed is replaced by the current time
func NewRandom(index int, seed uint64) *Random {
	return &Random{base: newBase(index), random: newRandomSource(seed)}
}

func (r *Random) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.NoMove, metrics.SearchMetric{Algorithm: "random"}
	}
	return r.random.pick(actions), metrics.SearchMetric{Algorithm: "random"}
}

// EnhancedRandom takes an immediate win when there is one, otherwise blocks a
// column where another agent would win, otherwise plays at random
type EnhancedRandom struct {
	base
	random *randomSource
}

func NewEnhancedRandom(index int, seed uint64) *EnhancedRandom {
	return &EnhancedRandom{base: newBase(index), random: newRandomSource(seed)}
}

func (r *EnhancedRandom) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	start := time.Now()
	m := metrics.SearchMetric{Algorithm: "enhancedrandom", Depth: 1}
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.NoMove, m
	}

	probe := state.Copy()
	var blocking []int
	for _, column := range actions {
		for agent := 0; agent < probe.NumAgents(); agent++ {
			if err := probe.MakeMove(agent, column); err != nil {
				panic(err)
			}
			m.Expanded++
			won := probe.IsWinner(agent)
			if err := probe.UnmakeMove(column); err != nil {
				panic(err)
			}
			if !won {
				continue
			}
			if agent == r.index {
				m.Duration = time.Since(start)
				return column, m
			}
			if len(blocking) == 0 || blocking[len(blocking)-1] != column {
				blocking = append(blocking, column)
			}
		}
	}

	m.Duration = time.Since(start)
	if len(blocking) > 0 {
		return r.random.pick(blocking), m
	}
	return r.random.pick(actions), m
}
