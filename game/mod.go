package game

import "github.com/pkg/errors"

const (
	// Empty marks a board slot that holds no token
	Empty = -1
	// NoMove is returned by agents that have no column to play
	NoMove = -1
	// WinLength is the number of aligned tokens needed to win
	WinLength = 4
	// MinSize is the smallest accepted board width and height
	MinSize = WinLength
	// MinAgents is the smallest accepted number of agents
	MinAgents = 2
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrBoardTooSmall = errors.New("board too small")
	ErrTooFewAgents  = errors.New("too few agents")
)

// Position identifies a board slot, row 0 being the bottom row
type Position struct {
	Column int
	Row    int
}

// Layout is the width and height of a board
type Layout struct {
	Width  int
	Height int
}

// EvalContext carries search information to an evaluation function.
// A zero Depth means the depth is unknown and no discount applies.
type EvalContext struct {
	Depth int
}

// Evaluate scores a state from the point of view of agent, higher being better.
// Implementations must leave the state as they found it.
type Evaluate func(state *GameState, agent int, ctx EvalContext) float64
