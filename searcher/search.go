package searcher

import (
	"math"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// childValue scores a child state reached at depth whose turn belongs to agent
type childValue func(state *game.GameState, agent, depth int) float64

// explorer carries the settings and collector of a single FindMove call
type explorer struct {
	*settings
	metrics metrics.Collector
}

// run performs the checks shared by all searchers and delegates the root to decide.
// decide receives a private copy of state.
func (s *settings) run(algorithm string, state *game.GameState, decide func(e *explorer, state *game.GameState) (int, float64)) (int, metrics.SearchMetric) {
	if s.agent >= state.NumAgents() {
		panic("agent index out of range for this game")
	}
	collector := s.newCollector()
	collector.Start(algorithm, s.depth, s.workers)

	if state.IsFinal() {
		return game.NoMove, collector.Complete()
	}
	if column, ok := opening(state); ok {
		collector.SetShortcut()
		log.Debug().Str("algorithm", algorithm).Int("agent", s.agent).Int("column", column).Msg("opening move")
		return column, collector.Complete()
	}

	e := &explorer{settings: s, metrics: collector}
	column, value := decide(e, state.Copy())
	m := collector.Complete()

	event := log.Debug().
		Str("algorithm", algorithm).
		Int("agent", s.agent).
		Int("depth", s.depth).
		Int("column", column).
		Float64("value", value)
	if s.measured {
		event = event.Int("expanded", m.Expanded).Dur("elapsed", m.Duration)
	}
	event.Msg("decision")
	return column, m
}

// opening plays the center column of an empty board with an odd width
func opening(state *game.GameState) (int, bool) {
	b := state.Board()
	if !b.IsEmpty() || b.Width()%2 == 0 {
		return game.NoMove, false
	}
	return b.Width() / 2, true
}

func (e *explorer) next(state *game.GameState, agent int) int {
	return (agent + 1) % state.NumAgents()
}

func (e *explorer) cutoff(state *game.GameState, depth int) bool {
	if e.depth != Unlimited && depth >= e.depth {
		return true
	}
	return state.IsFinal()
}

func (e *explorer) score(state *game.GameState, depth int) float64 {
	e.metrics.AddEvaluation()
	return e.evaluate(state, e.agent, game.EvalContext{Depth: depth})
}

// play returns the child reached by action. Exploration never plays an illegal
// move, so failures panic.
func (e *explorer) play(state *game.GameState, agent, action int) *game.GameState {
	e.metrics.AddExpanded()
	if e.copies {
		child, err := state.GenerateSuccessor(agent, action)
		if err != nil {
			panic(err)
		}
		return child
	}
	if err := state.MakeMove(agent, action); err != nil {
		panic(err)
	}
	return state
}

// undo reverts play on the parent state
func (e *explorer) undo(state *game.GameState, action int) {
	if e.copies {
		return
	}
	if err := state.UnmakeMove(action); err != nil {
		panic(err)
	}
}

// maxRoot picks the first root action with the strictly highest value
func (e *explorer) maxRoot(state *game.GameState, value childValue) (int, float64) {
	actions := state.LegalActions()
	next := e.next(state, e.agent)

	var values []float64
	if e.workers > 1 {
		values = e.parallelValues(state, actions, next, value)
	} else {
		values = make([]float64, len(actions))
		for i, action := range actions {
			child := e.play(state, e.agent, action)
			values[i] = value(child, next, 1)
			e.undo(state, action)
		}
	}

	i := utils.ArgMax(values)
	if i < 0 {
		return game.NoMove, math.Inf(-1)
	}
	return actions[i], values[i]
}

// parallelValues scores every root action on its own copy of the state
func (e *explorer) parallelValues(state *game.GameState, actions []int, next int, value childValue) []float64 {
	values := make([]float64, len(actions))
	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, action := range actions {
		i, action := i, action
		g.Go(func() error {
			e.metrics.AddExpanded()
			child, err := state.GenerateSuccessor(e.agent, action)
			if err != nil {
				return err
			}
			values[i] = value(child, next, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
	return values
}
