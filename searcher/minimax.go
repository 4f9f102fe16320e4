package searcher

import (
	"math"

	"connect4/experiments/metrics"
	"connect4/game"
)

// Minimax is a depth-limited minimax search. After agent i comes agent (i+1) mod N;
// the searching agent maximizes and the others are aggregated according to the
// configured Opponents.
type Minimax struct {
	settings
}

func NewMinimax(agent int, options ...Option) *Minimax {
	return &Minimax{settings: newSettings(agent, options)}
}

func (m *Minimax) Name() string {
	if m.opponents == Stochastic {
		return "minimax-stochastic"
	}
	return "minimax"
}

func (m *Minimax) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	return m.run(m.Name(), state, func(e *explorer, state *game.GameState) (int, float64) {
		return e.maxRoot(state, e.value)
	})
}

// value dispatches a node to its aggregation rule
func (e *explorer) value(state *game.GameState, agent, depth int) float64 {
	if e.cutoff(state, depth) {
		return e.score(state, depth)
	}
	switch {
	case agent == e.agent:
		return e.maxValue(state, agent, depth)
	case e.opponents == Stochastic:
		return e.chanceValue(state, agent, depth)
	default:
		return e.minValue(state, agent, depth)
	}
}

func (e *explorer) maxValue(state *game.GameState, agent, depth int) float64 {
	best := math.Inf(-1)
	next := e.next(state, agent)
	for _, action := range state.LegalActions() {
		child := e.play(state, agent, action)
		if v := e.value(child, next, depth+1); v > best {
			best = v
		}
		e.undo(state, action)
	}
	return best
}

func (e *explorer) minValue(state *game.GameState, agent, depth int) float64 {
	best := math.Inf(1)
	next := e.next(state, agent)
	for _, action := range state.LegalActions() {
		child := e.play(state, agent, action)
		if v := e.value(child, next, depth+1); v < best {
			best = v
		}
		e.undo(state, action)
	}
	return best
}
