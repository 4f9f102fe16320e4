package searcher

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

// Expectimax maximizes for its agent and treats every other agent as a chance
// node playing its legal columns uniformly at random.
type Expectimax struct {
	settings
}

func NewExpectimax(agent int, options ...Option) *Expectimax {
	e := &Expectimax{settings: newSettings(agent, options)}
	e.opponents = Stochastic
	return e
}

func (x *Expectimax) Name() string {
	return "expectimax"
}

func (x *Expectimax) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	return x.run(x.Name(), state, func(e *explorer, state *game.GameState) (int, float64) {
		return e.maxRoot(state, e.value)
	})
}

// chanceValue is the mean value of the children over every legal action
func (e *explorer) chanceValue(state *game.GameState, agent, depth int) float64 {
	actions := state.LegalActions()
	next := e.next(state, agent)
	sum := 0.0
	for _, action := range actions {
		child := e.play(state, agent, action)
		sum += e.value(child, next, depth+1)
		e.undo(state, action)
	}
	return sum / float64(len(actions))
}
