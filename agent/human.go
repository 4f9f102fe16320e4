package agent

import (
	"sync"

	"connect4/experiments/metrics"
	"connect4/game"
)

// Human is an interactive agent whose moves are supplied with SetMove
type Human struct {
	base
	mu      sync.Mutex
	pending int
}

func NewHuman(index int) *Human {
	return &Human{base: newBase(index), pending: game.NoMove}
}

func (h *Human) IsInteractive() bool {
	return true
}

// SetMove records the column to play on the agent's next turn
func (h *Human) SetMove(column int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = column
}

// FindMove hands out the pending column once, game.NoMove while none is set
func (h *Human) FindMove(_ *game.GameState) (int, metrics.SearchMetric) {
	h.mu.Lock()
	defer h.mu.Unlock()
	column := h.pending
	h.pending = game.NoMove
	return column, metrics.SearchMetric{}
}
