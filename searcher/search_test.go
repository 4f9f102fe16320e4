package searcher

import (
	"bytes"
	"testing"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newState(t *testing.T, width, height, agents int) *game.GameState {
	t.Helper()
	s, err := game.NewGameState(width, height, agents)
	require.NoError(t, err)
	return s
}

func place(t *testing.T, s *game.GameState, agent int, columns ...int) {
	t.Helper()
	for _, c := range columns {
		require.NoError(t, s.MakeMove(agent, c))
	}
}

// randomPosition plays random legal moves, stopping short of a final state, and
// returns the agent to move
func randomPosition(t *testing.T, seed uint64, width, height, agents, plies int) (*game.GameState, int) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	s := newState(t, width, height, agents)
	turn := 0
	for ; turn < plies; turn++ {
		actions := s.LegalActions()
		column := actions[r.Intn(len(actions))]
		place(t, s, turn%agents, column)
		if s.IsFinal() {
			require.NoError(t, s.UnmakeMove(column))
			break
		}
	}
	return s, turn % agents
}

type factory func(agent int, options ...Option) Searcher

var searchers = map[string]factory{
	"minimax":    func(agent int, options ...Option) Searcher { return NewMinimax(agent, options...) },
	"alphabeta":  func(agent int, options ...Option) Searcher { return NewAlphaBeta(agent, options...) },
	"expectimax": func(agent int, options ...Option) Searcher { return NewExpectimax(agent, options...) },
}

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := NewMinimax(1)

		require.Equal(t, 1, m.Agent())
		require.Equal(t, Unlimited, m.Depth(), "Searches are unlimited by default")
		require.Equal(t, Adversarial, m.opponents)
		require.Equal(t, 1, m.workers)
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		m := NewMinimax(0, WithDepth(0), WithDepth(-3), WithParallelRoot(0), WithEvaluationFn(nil))

		require.Equal(t, Unlimited, m.Depth())
		require.Equal(t, 1, m.workers)
		require.NotNil(t, m.evaluate)
	})

	t.Run("aggregation is fixed by the algorithm", func(t *testing.T) {
		require.Equal(t, Stochastic, NewExpectimax(0, WithOpponents(Adversarial)).opponents)
		require.Equal(t, Adversarial, NewAlphaBeta(0, WithOpponents(Stochastic)).opponents)
		require.Equal(t, "minimax-stochastic", NewMinimax(0, WithOpponents(Stochastic)).Name())
	})

	t.Run("misuse panics", func(t *testing.T) {
		require.Panics(t, func() { NewMinimax(-1) })
		s := newState(t, 6, 6, 2)
		require.Panics(t, func() { NewAlphaBeta(2, WithDepth(1)).FindMove(s) }, "Agent index beyond the game's agents")
	})
}

func TestOpening(t *testing.T) {
	for name, build := range searchers {
		t.Run(name+" plays the center of an empty odd-width board", func(t *testing.T) {
			for _, depth := range []int{1, 2, 5, Unlimited} {
				s := newState(t, 7, 6, 2)

				column, m := build(0, WithDepth(depth), WithMetrics()).FindMove(s)

				require.Equal(t, 3, column, "Depth %d should open in the center", depth)
				require.True(t, m.Shortcut, "Opening should not search")
				require.Zero(t, m.Expanded)
			}
		})
	}

	t.Run("even width searches", func(t *testing.T) {
		s := newState(t, 6, 6, 2)

		column, m := NewMinimax(0, WithDepth(1), WithEvaluationFn(game.EvaluateBasic), WithMetrics()).FindMove(s)

		require.Equal(t, 0, column, "All columns tie, the first one wins")
		require.False(t, m.Shortcut)
		require.Equal(t, 6, m.Expanded)
		require.Equal(t, 6, m.Evaluations)
	})
}

func TestFinalRoot(t *testing.T) {
	for name, build := range searchers {
		t.Run(name, func(t *testing.T) {
			s := newState(t, 4, 4, 2)
			place(t, s, 0, 1, 1, 1, 1)

			column, _ := build(1, WithDepth(3)).FindMove(s)

			require.Equal(t, game.NoMove, column)
		})
	}
}

func TestTactics(t *testing.T) {
	for name, build := range searchers {
		t.Run(name+" takes an immediate win", func(t *testing.T) {
			s := newState(t, 7, 6, 2)
			place(t, s, 0, 4, 4, 4)
			place(t, s, 1, 0, 1, 6)

			column, _ := build(0, WithDepth(1), WithEvaluationFn(game.EvaluateBasic)).FindMove(s)

			require.Equal(t, 4, column)
		})

		t.Run(name+" blocks an immediate threat", func(t *testing.T) {
			s := newState(t, 7, 6, 2)
			place(t, s, 1, 6, 6, 6)
			place(t, s, 0, 0, 0, 2)

			column, _ := build(0, WithDepth(2), WithEvaluationFn(game.EvaluateBasic)).FindMove(s)

			require.Equal(t, 6, column)
		})
	}
}

func TestStateIsNotModified(t *testing.T) {
	for name, build := range searchers {
		for _, options := range [][]Option{
			{WithDepth(3), WithEvaluationFn(game.EvaluateScore4)},
			{WithDepth(3), WithEvaluationFn(game.EvaluateLookahead), WithSuccessorCopies()},
			{WithDepth(2), WithEvaluationFn(game.EvaluateScore4), WithParallelRoot(4)},
		} {
			s, agent := randomPosition(t, 7, 7, 6, 2, 9)
			before := s.Copy()

			build(agent, options...).FindMove(s)

			require.True(t, s.Equal(before), "%s should leave the state untouched", name)
		}
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	evaluators := map[string]game.Evaluate{
		"basic":     game.EvaluateBasic,
		"score4":    game.EvaluateScore4,
		"lookahead": game.EvaluateLookahead,
	}
	for evalName, evaluate := range evaluators {
		t.Run(evalName, func(t *testing.T) {
			for seed := uint64(1); seed <= 12; seed++ {
				agents := 2 + int(seed%2)
				s, agent := randomPosition(t, seed, 6, 5, agents, int(seed%10)+2)
				if s.IsFinal() {
					continue
				}
				for depth := 1; depth <= 4; depth++ {
					want, mm := NewMinimax(agent, WithDepth(depth), WithEvaluationFn(evaluate), WithMetrics()).FindMove(s)
					got, am := NewAlphaBeta(agent, WithDepth(depth), WithEvaluationFn(evaluate), WithMetrics()).FindMove(s)

					require.Equal(t, want, got, "seed %d depth %d agents %d", seed, depth, agents)
					require.LessOrEqual(t, am.Evaluations, mm.Evaluations, "Pruning never evaluates more leaves")
				}
			}
		})
	}

	t.Run("unlimited depth", func(t *testing.T) {
		s := newState(t, 4, 4, 2)
		// rows 0 to 2 hold a drawn pattern, the top row is open
		place(t, s, 0, 0, 0)
		place(t, s, 1, 0, 1, 1)
		place(t, s, 0, 1, 2, 2)
		place(t, s, 1, 2, 3, 3)
		place(t, s, 0, 3)
		require.False(t, s.IsFinal())

		want, _ := NewMinimax(0, WithEvaluationFn(game.EvaluateBasic)).FindMove(s)
		got, _ := NewAlphaBeta(0, WithEvaluationFn(game.EvaluateBasic)).FindMove(s)

		require.Equal(t, want, got)
		require.Contains(t, s.LegalActions(), got)
	})

	t.Run("prunes", func(t *testing.T) {
		s, agent := randomPosition(t, 3, 7, 6, 2, 6)
		_, m := NewAlphaBeta(agent, WithDepth(4), WithEvaluationFn(game.EvaluateScore4), WithMetrics()).FindMove(s)

		require.Positive(t, m.Pruned)
	})
}

func TestExplorationModes(t *testing.T) {
	for name, build := range searchers {
		t.Run(name, func(t *testing.T) {
			for seed := uint64(20); seed < 26; seed++ {
				s, agent := randomPosition(t, seed, 7, 6, 2, 5)
				if s.IsFinal() {
					continue
				}
				base := []Option{WithDepth(3), WithEvaluationFn(game.EvaluateScore4), WithMetrics()}

				want, wm := build(agent, base...).FindMove(s)
				copied, cm := build(agent, append(base, WithSuccessorCopies())...).FindMove(s)
				parallel, _ := build(agent, append(base, WithParallelRoot(4))...).FindMove(s)

				require.Equal(t, want, copied, "Successor copies should not change the decision")
				require.Equal(t, wm.Expanded, cm.Expanded, "Both modes expand the same states")
				require.Equal(t, want, parallel, "Parallel root should keep the tie-break")
			}
		})
	}
}

func TestChanceValue(t *testing.T) {
	// rewards tokens in columns 0 and 3
	evaluate := func(s *game.GameState, _ int, _ game.EvalContext) float64 {
		return float64(s.Board().ColumnHeight(0) + 4*s.Board().ColumnHeight(3))
	}
	s := newSettings(0, []Option{WithDepth(1), WithEvaluationFn(evaluate)})
	s.opponents = Stochastic
	e := &explorer{settings: &s, metrics: metrics.NewDummyCollector()}
	state := newState(t, 4, 4, 2)

	require.Equal(t, 1.25, e.chanceValue(state, 1, 0), "Mean of 1, 0, 0 and 4")
	require.Equal(t, 1.25, e.value(state, 1, 0), "Other agents are chance nodes")
	require.Equal(t, 0.0, e.minValue(state, 1, 0))
	require.Equal(t, 4.0, e.maxValue(state, 1, 0))
	require.True(t, state.Board().IsEmpty(), "Exploration restores the state")
}

func TestExpectimaxDiffersFromMinimax(t *testing.T) {
	// playing column 1 pays off on most replies but loses badly when the reply is column 2
	risky := func(loss float64) game.Evaluate {
		return func(s *game.GameState, _ int, _ game.EvalContext) float64 {
			b := s.Board()
			switch {
			case b.ColumnHeight(1) == 0:
				return 0
			case b.ColumnHeight(2) > 0:
				return loss
			default:
				return 1
			}
		}
	}
	s := newState(t, 4, 4, 2)

	minimax, _ := NewMinimax(0, WithDepth(2), WithEvaluationFn(risky(-1))).FindMove(s)
	require.Equal(t, 0, minimax, "Minimax assumes the worst reply")

	expectimax, _ := NewExpectimax(0, WithDepth(2), WithEvaluationFn(risky(-10))).FindMove(s)
	require.Equal(t, 0, expectimax, "Mean of 1, 1, -10, 1 is below the 0.25 of column 0")

	expectimax, _ = NewExpectimax(0, WithDepth(2), WithEvaluationFn(risky(-1))).FindMove(s)
	require.Equal(t, 1, expectimax, "Mean of 1, 1, -1, 1 beats column 0")

	stochastic, _ := NewMinimax(0, WithDepth(2), WithOpponents(Stochastic), WithEvaluationFn(risky(-1))).FindMove(s)
	require.Equal(t, expectimax, stochastic, "Stochastic minimax aggregates like expectimax")
}

func TestDecisionLog(t *testing.T) {
	logger, level := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	}()
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	s := newState(t, 6, 6, 2)

	t.Run("figures are only logged when measured", func(t *testing.T) {
		buf.Reset()
		NewMinimax(0, WithDepth(1), WithEvaluationFn(game.EvaluateBasic)).FindMove(s)

		require.Contains(t, buf.String(), `"message":"decision"`)
		require.NotContains(t, buf.String(), `"expanded"`, "The dummy collector measures nothing")
		require.NotContains(t, buf.String(), `"elapsed"`)
	})

	t.Run("measured figures", func(t *testing.T) {
		buf.Reset()
		NewMinimax(0, WithDepth(1), WithEvaluationFn(game.EvaluateBasic), WithMetrics()).FindMove(s)

		require.Contains(t, buf.String(), `"expanded":6`)
		require.Contains(t, buf.String(), `"elapsed"`)
	})
}
