package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// GameState is a board shared by a fixed number of agents. Terminality and the
// winner are derived from the board on every query.
type GameState struct {
	board     *Board
	numAgents int
}

// NewGameState creates the initial state of a game
func NewGameState(width, height, numAgents int) (*GameState, error) {
	if width < MinSize || height < MinSize {
		return nil, errors.Wrapf(ErrBoardTooSmall, "layout %dx%d, need at least %dx%d", width, height, MinSize, MinSize)
	}
	if numAgents < MinAgents {
		return nil, errors.Wrapf(ErrTooFewAgents, "got %d agents, need at least %d", numAgents, MinAgents)
	}
	return &GameState{
		board:     NewBoard(width, height),
		numAgents: numAgents,
	}, nil
}

// Board exposes the underlying board for read access
func (s *GameState) Board() *Board {
	return s.board
}

func (s *GameState) Layout() Layout {
	return s.board.Layout()
}

func (s *GameState) NumAgents() int {
	return s.numAgents
}

func (s *GameState) IsLegalAction(column int) bool {
	return s.board.CanPush(column)
}

// LegalActions returns the playable columns in ascending order, none once the game is over
func (s *GameState) LegalActions() []int {
	if s.IsFinal() {
		return []int{}
	}
	actions := make([]int, 0, s.board.width)
	for column := 0; column < s.board.width; column++ {
		if s.board.CanPush(column) {
			actions = append(actions, column)
		}
	}
	return actions
}

func (s *GameState) IsWin() bool {
	_, _, ok := s.board.findRun()
	return ok
}

// CanWin reports whether some window of the board could still be completed by one agent
func (s *GameState) CanWin() bool {
	return s.board.hasOpenWindow()
}

func (s *GameState) IsFinal() bool {
	return s.IsWin() || s.board.IsFull() || !s.CanWin()
}

func (s *GameState) IsTie() bool {
	return s.IsFinal() && !s.IsWin()
}

// WinnerPositions returns the winning run, or nil when nobody has won
func (s *GameState) WinnerPositions() []Position {
	anchor, d, ok := s.board.findRun()
	if !ok {
		return nil
	}
	return s.board.collectRun(anchor, d)
}

// Winner returns the agent owning the winning run
func (s *GameState) Winner() (int, bool) {
	anchor, _, ok := s.board.findRun()
	if !ok {
		return Empty, false
	}
	return s.board.Get(anchor.Column, anchor.Row), true
}

func (s *GameState) IsWinner(agent int) bool {
	winner, ok := s.Winner()
	return ok && winner == agent
}

func (s *GameState) validAgent(agent int) bool {
	return agent >= 0 && agent < s.numAgents
}

// GenerateSuccessor returns a new state with agent's token dropped into column.
// The receiver is not modified.
func (s *GameState) GenerateSuccessor(agent, column int) (*GameState, error) {
	if s.IsFinal() {
		return nil, errors.Wrap(ErrIllegalMove, "game is over")
	}
	next := s.Copy()
	if err := next.MakeMove(agent, column); err != nil {
		return nil, err
	}
	return next, nil
}

// MakeMove drops agent's token into column in place. It does not test whether the
// game is already over.
func (s *GameState) MakeMove(agent, column int) error {
	if !s.validAgent(agent) {
		return errors.Wrapf(ErrIllegalMove, "agent %d out of range [0,%d)", agent, s.numAgents)
	}
	if _, ok := s.board.Push(agent, column); !ok {
		return errors.Wrapf(ErrIllegalMove, "column %d is full or out of range", column)
	}
	return nil
}

// UnmakeMove removes the topmost token of column, reverting a MakeMove
func (s *GameState) UnmakeMove(column int) error {
	if _, ok := s.board.Pop(column); !ok {
		return errors.Wrapf(ErrIllegalMove, "column %d is empty or out of range", column)
	}
	return nil
}

func (s *GameState) Copy() *GameState {
	return &GameState{
		board:     s.board.Copy(),
		numAgents: s.numAgents,
	}
}

func (s *GameState) Equal(other *GameState) bool {
	return other != nil && s.numAgents == other.numAgents && s.board.Equal(other.board)
}

func (s *GameState) String() string {
	return fmt.Sprintf("%d agents, %dx%d\n%s", s.numAgents, s.board.width, s.board.height, s.board)
}
