package game

import "strings"

// Board is a grid of columns filled bottom-up. Cells hold an agent id or Empty.
type Board struct {
	width   int
	height  int
	cells   []int // column-major: cells[column*height+row]
	heights []int
	filled  int
}

// NewBoard creates an empty board. It panics on non-positive dimensions.
func NewBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic("board dimensions must be positive")
	}
	b := &Board{
		width:   width,
		height:  height,
		cells:   make([]int, width*height),
		heights: make([]int, width),
	}
	for i := range b.cells {
		b.cells[i] = Empty
	}
	return b
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) Layout() Layout {
	return Layout{Width: b.width, Height: b.height}
}

func (b *Board) inColumns(column int) bool {
	return column >= 0 && column < b.width
}

func (b *Board) inBounds(column, row int) bool {
	return b.inColumns(column) && row >= 0 && row < b.height
}

// Get returns the token at the given slot, or Empty when the slot is empty or out of range
func (b *Board) Get(column, row int) int {
	if !b.inBounds(column, row) {
		return Empty
	}
	return b.cells[column*b.height+row]
}

// Has reports whether the slot is in range and holds a token
func (b *Board) Has(column, row int) bool {
	return b.Get(column, row) != Empty
}

func (b *Board) CanPush(column int) bool {
	return b.inColumns(column) && b.heights[column] < b.height
}

// Push drops a token into column and returns the row it landed on
func (b *Board) Push(agent, column int) (int, bool) {
	if !b.CanPush(column) {
		return -1, false
	}
	row := b.heights[column]
	b.cells[column*b.height+row] = agent
	b.heights[column]++
	b.filled++
	return row, true
}

// Pop removes the topmost token of column and returns it
func (b *Board) Pop(column int) (int, bool) {
	if !b.inColumns(column) || b.heights[column] == 0 {
		return Empty, false
	}
	b.heights[column]--
	i := column*b.height + b.heights[column]
	agent := b.cells[i]
	b.cells[i] = Empty
	b.filled--
	return agent, true
}

// ColumnHeight returns the number of tokens in column, 0 when out of range
func (b *Board) ColumnHeight(column int) int {
	if !b.inColumns(column) {
		return 0
	}
	return b.heights[column]
}

func (b *Board) IsColumnFull(column int) bool {
	return b.inColumns(column) && b.heights[column] == b.height
}

func (b *Board) IsColumnEmpty(column int) bool {
	return !b.inColumns(column) || b.heights[column] == 0
}

func (b *Board) IsFull() bool {
	return b.filled == len(b.cells)
}

func (b *Board) IsEmpty() bool {
	return b.filled == 0
}

// Clear removes every token
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	for i := range b.heights {
		b.heights[i] = 0
	}
	b.filled = 0
}

func (b *Board) Copy() *Board {
	return &Board{
		width:   b.width,
		height:  b.height,
		cells:   append([]int(nil), b.cells...),
		heights: append([]int(nil), b.heights...),
		filled:  b.filled,
	}
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i, v := range b.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// String renders the board top row first, '.' marking empty slots
func (b *Board) String() string {
	var sb strings.Builder
	for row := b.height - 1; row >= 0; row-- {
		for column := 0; column < b.width; column++ {
			if column > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(tokenString(b.Get(column, row)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func tokenString(token int) string {
	if token == Empty {
		return "."
	}
	if token < 10 {
		return string(rune('0' + token))
	}
	return string(rune('a' + token - 10))
}
