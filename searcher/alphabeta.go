package searcher

import (
	"math"

	"connect4/experiments/metrics"
	"connect4/game"
)

// AlphaBeta is minimax with alpha-beta pruning. It picks the same column as an
// adversarial Minimax with the same depth and evaluation function.
type AlphaBeta struct {
	settings
}

func NewAlphaBeta(agent int, options ...Option) *AlphaBeta {
	a := &AlphaBeta{settings: newSettings(agent, options)}
	a.opponents = Adversarial
	return a
}

func (a *AlphaBeta) Name() string {
	return "alphabeta"
}

func (a *AlphaBeta) FindMove(state *game.GameState) (int, metrics.SearchMetric) {
	return a.run(a.Name(), state, func(e *explorer, state *game.GameState) (int, float64) {
		if e.workers > 1 {
			// Root children searched concurrently cannot share a window
			return e.maxRoot(state, func(child *game.GameState, agent, depth int) float64 {
				return e.alphaBeta(child, agent, depth, math.Inf(-1), math.Inf(1))
			})
		}
		return e.alphaBetaRoot(state)
	})
}

func (e *explorer) alphaBetaRoot(state *game.GameState) (int, float64) {
	alpha, beta := math.Inf(-1), math.Inf(1)
	best, bestAction := math.Inf(-1), game.NoMove
	next := e.next(state, e.agent)
	for _, action := range state.LegalActions() {
		child := e.play(state, e.agent, action)
		v := e.alphaBeta(child, next, 1, alpha, beta)
		e.undo(state, action)
		if v > best {
			best, bestAction = v, action
		}
		alpha = math.Max(alpha, best)
	}
	return bestAction, best
}

func (e *explorer) alphaBeta(state *game.GameState, agent, depth int, alpha, beta float64) float64 {
	if e.cutoff(state, depth) {
		return e.score(state, depth)
	}
	next := e.next(state, agent)
	if agent == e.agent {
		best := math.Inf(-1)
		for _, action := range state.LegalActions() {
			child := e.play(state, agent, action)
			v := e.alphaBeta(child, next, depth+1, alpha, beta)
			e.undo(state, action)
			if v > best {
				best = v
			}
			if best >= beta {
				e.metrics.AddPrune()
				break
			}
			alpha = math.Max(alpha, best)
		}
		return best
	}

	best := math.Inf(1)
	for _, action := range state.LegalActions() {
		child := e.play(state, agent, action)
		v := e.alphaBeta(child, next, depth+1, alpha, beta)
		e.undo(state, action)
		if v < best {
			best = v
		}
		if best <= alpha {
			e.metrics.AddPrune()
			break
		}
		beta = math.Min(beta, best)
	}
	return best
}
