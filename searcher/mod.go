package searcher

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

// Unlimited disables the depth cutoff: the search runs to terminal states
const Unlimited = -1

// Searcher picks a column for the agent it was built for
type Searcher interface {
	// FindMove returns the chosen column, or game.NoMove when the state is final,
	// along with the metrics of the search. The state is never modified.
	FindMove(state *game.GameState) (int, metrics.SearchMetric)
	// Agent is the index of the maximizing agent
	Agent() int
	Name() string
}

// Opponents is how the values of nodes owned by other agents are aggregated
type Opponents int

const (
	// Adversarial opponents pick the child worst for the searching agent
	Adversarial Opponents = iota
	// Stochastic opponents play uniformly at random: children are averaged
	Stochastic
)

func (o Opponents) String() string {
	switch o {
	case Adversarial:
		return "adversarial"
	case Stochastic:
		return "stochastic"
	default:
		return "unknown"
	}
}

type Option func(s *settings)

// WithDepth limits the search to the given number of plies, or Unlimited
func WithDepth(plies int) Option {
	return func(s *settings) {
		if plies > 0 || plies == Unlimited {
			s.depth = plies
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *settings) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

// WithSuccessorCopies explores through GenerateSuccessor copies instead of
// applying and reverting moves on a single exploration state
func WithSuccessorCopies() Option {
	return func(s *settings) {
		s.copies = true
	}
}

// WithParallelRoot searches the children of the root on up to workers goroutines
func WithParallelRoot(workers int) Option {
	return func(s *settings) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithOpponents sets how a Minimax searcher aggregates the other agents' nodes
func WithOpponents(opponents Opponents) Option {
	return func(s *settings) {
		if opponents == Adversarial || opponents == Stochastic {
			s.opponents = opponents
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.newCollector = metrics.NewCollector
		s.measured = true
	}
}

type settings struct {
	agent        int
	depth        int
	evaluate     game.Evaluate
	copies       bool
	workers      int
	opponents    Opponents
	newCollector func() metrics.Collector
	measured     bool // the collector records real figures
}

func newSettings(agent int, options []Option) settings {
	if agent < 0 {
		panic("agent index must not be negative")
	}
	s := settings{ // Default values
		agent:        agent,
		depth:        Unlimited,
		evaluate:     game.EvaluateImproved,
		workers:      1,
		opponents:    Adversarial,
		newCollector: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(&s)
	}
	return s
}

func (s *settings) Agent() int {
	return s.agent
}

func (s *settings) Depth() int {
	return s.depth
}
