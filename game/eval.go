package game

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

var ErrUnknownEvaluator = errors.New("unknown evaluator")

// EvaluateBasic scores 1 for a win of agent, -1 for a loss and 0 otherwise
func EvaluateBasic(s *GameState, agent int, _ EvalContext) float64 {
	return terminalScore(s, agent)
}

// EvaluateImproved behaves like EvaluateBasic on terminal states and returns a
// random value in [0,1) elsewhere
func EvaluateImproved(s *GameState, agent int, _ EvalContext) float64 {
	if !s.IsFinal() {
		return rand.Float64()
	}
	return terminalScore(s, agent)
}

func terminalScore(s *GameState, agent int) float64 {
	if !s.IsFinal() {
		return 0
	}
	winner, ok := s.Winner()
	switch {
	case !ok:
		return 0
	case winner == agent:
		return 1
	default:
		return -1
	}
}

const score4Max = 1000000.0

// EvaluateScore4 counts every window of WinLength cells by its balance of
// agent tokens (+1) against other tokens (-1).
func EvaluateScore4(s *GameState, agent int, _ EvalContext) float64 {
	b := s.board
	var counters [2*WinLength + 1]int
	for column := 0; column < b.width; column++ {
		for row := 0; row < b.height; row++ {
			for _, d := range directions {
				balance, ok := b.windowBalance(agent, column, row, d)
				if ok {
					counters[balance+WinLength]++
				}
			}
		}
	}

	switch {
	case counters[0] != 0:
		return -1
	case counters[2*WinLength] != 0:
		return 1
	}
	score := counters[5] + 2*counters[6] + 5*counters[7] - counters[3] - 2*counters[2] - 5*counters[1]
	return float64(score) / score4Max
}

func (b *Board) windowBalance(agent, column, row int, d direction) (int, bool) {
	lastColumn, lastRow := column+(WinLength-1)*d.dc, row+(WinLength-1)*d.dr
	if !b.inBounds(column, row) || !b.inBounds(lastColumn, lastRow) {
		return 0, false
	}
	balance := 0
	for k := 0; k < WinLength; k++ {
		switch token := b.cells[(column+k*d.dc)*b.height+row+k*d.dr]; {
		case token == Empty:
		case token == agent:
			balance++
		default:
			balance--
		}
	}
	return balance, true
}

const (
	lookaheadWinWeight  = 0.5
	lookaheadLossWeight = -1.0
)

// EvaluateLookahead plays every legal column for every agent one step ahead and
// weighs the wins and losses it reaches. Scores are discounted by the number of
// completed rounds.
func EvaluateLookahead(s *GameState, agent int, ctx EvalContext) float64 {
	if s.IsFinal() {
		return terminalScore(s, agent)
	}
	maxScore := 100.0 * float64(s.board.width*s.board.height)
	wins, losses := 0, 0
	for _, column := range s.LegalActions() {
		for a := 0; a < s.numAgents; a++ {
			if err := s.MakeMove(a, column); err != nil {
				panic(err)
			}
			if winner, ok := s.Winner(); ok {
				if winner == agent {
					wins++
				} else {
					losses++
				}
			}
			if err := s.UnmakeMove(column); err != nil {
				panic(err)
			}
		}
	}
	score := (lookaheadWinWeight*float64(wins) + lookaheadLossWeight*float64(losses)) / maxScore
	if rounds := ctx.Depth / s.numAgents; rounds > 0 {
		score /= float64(rounds)
	}
	return score
}

// DiscountByDepth divides the score of evaluate by the depth it was reached at,
// so that nearer outcomes weigh more
func DiscountByDepth(evaluate Evaluate) Evaluate {
	return func(s *GameState, agent int, ctx EvalContext) float64 {
		score := evaluate(s, agent, ctx)
		if ctx.Depth > 0 {
			score /= float64(ctx.Depth)
		}
		return score
	}
}

var (
	evaluatorsMu sync.RWMutex
	evaluators   = map[string]Evaluate{
		"basic":             EvaluateBasic,
		"improved":          EvaluateImproved,
		"score4":            EvaluateScore4,
		"lookahead":         EvaluateLookahead,
		"discounted-score4": DiscountByDepth(EvaluateScore4),
	}
)

// DefaultEvaluator names the evaluator used when none is configured
const DefaultEvaluator = "improved"

// RegisterEvaluator makes an evaluation function available by name
func RegisterEvaluator(name string, evaluate Evaluate) {
	if evaluate == nil {
		panic("nil evaluation function")
	}
	evaluatorsMu.Lock()
	defer evaluatorsMu.Unlock()
	evaluators[name] = evaluate
}

// LookupEvaluator resolves a registered evaluation function. An empty name
// resolves to DefaultEvaluator.
func LookupEvaluator(name string) (Evaluate, error) {
	if name == "" {
		name = DefaultEvaluator
	}
	evaluatorsMu.RLock()
	defer evaluatorsMu.RUnlock()
	evaluate, ok := evaluators[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEvaluator, "%q", name)
	}
	return evaluate, nil
}

// EvaluatorNames lists the registered evaluators in alphabetical order
func EvaluatorNames() []string {
	evaluatorsMu.RLock()
	defer evaluatorsMu.RUnlock()
	names := make([]string, 0, len(evaluators))
	for name := range evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
