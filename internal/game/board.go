package game

import "fmt"

// Seats is the fixed number of players.
const Seats = 4

// Grid holds the owner of every board cell: 0 = empty, 1..Seats = player id.
type Grid [BoardSize][BoardSize]int

// GridFromInts validates and converts the authority's row-major matrix.
func GridFromInts(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != BoardSize {
		return g, fmt.Errorf("%w: %d rows", ErrBadGrid, len(rows))
	}
	for i, row := range rows {
		if len(row) != BoardSize {
			return g, fmt.Errorf("%w: row %d has %d cells", ErrBadGrid, i, len(row))
		}
		for j, v := range row {
			if v < 0 || v > Seats {
				return g, fmt.Errorf("%w: owner %d at (%d,%d)", ErrBadGrid, v, i, j)
			}
			g[i][j] = v
		}
	}
	return g, nil
}

// Owner returns the owner of c, or 0 for off-board cells.
func (g *Grid) Owner(c Cell) int {
	if !c.OnBoard() {
		return 0
	}
	return g[c.Row][c.Col]
}

// Count returns how many cells player owns.
func (g *Grid) Count(player int) int {
	n := 0
	for i := range g {
		for j := range g[i] {
			if g[i][j] == player {
				n++
			}
		}
	}
	return n
}

// BoardSnapshot is the authority's view of the board and whose turn it is.
type BoardSnapshot struct {
	Grid          Grid
	CurrentPlayer int
}

// BoardModel is the last-known board. It is only ever replaced wholesale
// from authority snapshots.
type BoardModel struct {
	grid         Grid
	activePlayer int
	version      int
}

// Apply replaces the grid.
func (b *BoardModel) Apply(g Grid) {
	b.grid = g
	b.version++
}

// SetActive records the active player id.
func (b *BoardModel) SetActive(player int) {
	b.activePlayer = player
}

// Reset empties the grid and forgets the active player.
func (b *BoardModel) Reset() {
	b.grid = Grid{}
	b.activePlayer = 0
	b.version++
}

// Grid returns a copy of the current grid.
func (b *BoardModel) Grid() Grid { return b.grid }

func (b *BoardModel) ActivePlayer() int { return b.activePlayer }

// Version increments on every grid replacement; renderers use it to drop
// stale previews.
func (b *BoardModel) Version() int { return b.version }
