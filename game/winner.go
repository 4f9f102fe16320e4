package game

type direction struct {
	dc, dr int
}

// Scan order for runs anchored at a cell: horizontal, up-right, down-right, vertical
var directions = [...]direction{
	{dc: 1, dr: 0},
	{dc: 1, dr: 1},
	{dc: 1, dr: -1},
	{dc: 0, dr: 1},
}

// runAt reports whether WinLength cells starting at (column,row) along d all hold token
func (b *Board) runAt(token, column, row int, d direction) bool {
	for k := 0; k < WinLength; k++ {
		if b.Get(column+k*d.dc, row+k*d.dr) != token {
			return false
		}
	}
	return true
}

// openWindow reports whether the WinLength window starting at (column,row) along d
// lies on the board and holds tokens of at most one agent
func (b *Board) openWindow(column, row int, d direction) bool {
	last := Position{Column: column + (WinLength-1)*d.dc, Row: row + (WinLength-1)*d.dr}
	if !b.inBounds(column, row) || !b.inBounds(last.Column, last.Row) {
		return false
	}
	owner := Empty
	for k := 0; k < WinLength; k++ {
		token := b.cells[(column+k*d.dc)*b.height+row+k*d.dr]
		if token == Empty {
			continue
		}
		if owner == Empty {
			owner = token
		} else if owner != token {
			return false
		}
	}
	return true
}

// findRun returns the first run found by the scan as an anchor cell and a direction
func (b *Board) findRun() (Position, direction, bool) {
	for column := 0; column < b.width; column++ {
		for row := 0; row < b.heights[column]; row++ {
			token := b.cells[column*b.height+row]
			for _, d := range directions {
				if b.runAt(token, column, row, d) {
					return Position{Column: column, Row: row}, d, true
				}
			}
		}
	}
	return Position{}, direction{}, false
}

// collectRun lists the anchored cells, then further cells forward, then backward
func (b *Board) collectRun(anchor Position, d direction) []Position {
	token := b.Get(anchor.Column, anchor.Row)
	positions := make([]Position, 0, WinLength+2)
	for k := 0; k < WinLength; k++ {
		positions = append(positions, Position{Column: anchor.Column + k*d.dc, Row: anchor.Row + k*d.dr})
	}
	for k := WinLength; b.Get(anchor.Column+k*d.dc, anchor.Row+k*d.dr) == token; k++ {
		positions = append(positions, Position{Column: anchor.Column + k*d.dc, Row: anchor.Row + k*d.dr})
	}
	for k := -1; b.Get(anchor.Column+k*d.dc, anchor.Row+k*d.dr) == token; k-- {
		positions = append(positions, Position{Column: anchor.Column + k*d.dc, Row: anchor.Row + k*d.dr})
	}
	return positions
}

// hasOpenWindow reports whether any window could still become a run
func (b *Board) hasOpenWindow() bool {
	for column := 0; column < b.width; column++ {
		for row := 0; row < b.height; row++ {
			for _, d := range directions {
				if b.openWindow(column, row, d) {
					return true
				}
			}
		}
	}
	return false
}
