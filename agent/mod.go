package agent

import (
	"fmt"

	"connect4/experiments/metrics"
	"connect4/game"
)

type Agent interface {
	// FindMove returns the column to play in state, or game.NoMove when the agent
	// has none. The state must not be modified.
	FindMove(state *game.GameState) (int, metrics.SearchMetric)
	Index() int
	Name() string
	// IsInteractive reports whether moves come from outside the program
	IsInteractive() bool
}

type base struct {
	index int
	name  string
}

func newBase(index int) base {
	if index < 0 {
		panic("agent index must not be negative")
	}
	return base{index: index, name: fmt.Sprintf("Agent #%d", index)}
}

func (b *base) Index() int {
	return b.index
}

func (b *base) Name() string {
	return b.name
}

func (b *base) SetName(name string) {
	if name != "" {
		b.name = name
	}
}

func (b *base) IsInteractive() bool {
	return false
}
