package agent

import (
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"
)

// Computer delegates its decisions to a search algorithm
type Computer struct {
	base
	searcher searcher.Searcher
}

// NewComputer panics when the searcher maximizes for another agent
func NewComputer(index int, s searcher.Searcher) *Computer {
	if s == nil {
		panic("nil searcher")
	}
	if s.Agent() != index {
		panic("searcher was built for another agent")
	}
	return &Computer{base: newBase(index), searcher: s}
}

func (c *Computer) Searcher() searcher.Searcher {
	return c.searcher
}

func (c *Computer) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	return c.searcher.FindMove(state)
}
