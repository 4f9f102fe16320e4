package engine

import (
	"context"
	"time"

	"connect4/game"

	"github.com/pkg/errors"
)

// DefaultPollInterval is how often Run checks an interactive agent for a move
const DefaultPollInterval = 20 * time.Millisecond

// MaxForfeitRounds is the number of rounds in which every agent forfeits after
// which Run gives up
const MaxForfeitRounds = 3

var (
	ErrAgentIndex = errors.New("agent index does not match its seat")
	ErrGameOver   = errors.New("game is over")
	ErrStalled    = errors.New("no agent is making moves")
)

type Engine interface {
	// Run plays turns until the game is over or ctx is done
	Run(ctx context.Context) (Result, error)
}

type Result struct {
	Winner          int // agent index, -1 without a winner
	Tie             bool
	WinnerPositions []game.Position
	Moves           int // tokens dropped
}

func (r Result) HasWinner() bool {
	return r.Winner >= 0
}

// Turn describes what happened during one Step
type Turn struct {
	Step     int
	Agent    int
	Column   int // game.NoMove on a forfeit or while waiting
	Row      int
	Waiting  bool // interactive agent has no move yet, nothing changed
	Forfeit  bool // the agent gave up its turn
	TimedOut bool // forfeit caused by the timeout
	Final    bool // the move ended the game
}

// AgentStats accumulates per-agent figures over a game
type AgentStats struct {
	Moves       int
	Forfeits    int
	Timeouts    int
	Expanded    int
	Evaluations int
	Elapsed     time.Duration
}
