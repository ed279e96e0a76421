package game

// HoverPreview holds the board cells highlighted for the selected piece.
// It is advisory only: occupied cells are highlighted like empty ones.
type HoverPreview struct {
	cells   []Cell
	hovered Cell
	active  bool
}

// Enter repaints the preview for shape anchored at cell. Projected cells
// that fall off the board are skipped.
func (h *HoverPreview) Enter(shape Shape, cell Cell) {
	h.Leave()
	for _, c := range CoveredCells(shape, cell) {
		if c.OnBoard() {
			h.cells = append(h.cells, c)
		}
	}
	h.hovered = cell
	h.active = true
}

// Leave clears the preview.
func (h *HoverPreview) Leave() {
	h.cells = h.cells[:0]
	h.active = false
}

// Cells returns the highlighted cells.
func (h *HoverPreview) Cells() []Cell {
	return append([]Cell(nil), h.cells...)
}

// Hovered returns the anchor of the current preview.
func (h *HoverPreview) Hovered() (Cell, bool) {
	return h.hovered, h.active
}

func (h *HoverPreview) Contains(c Cell) bool {
	for _, x := range h.cells {
		if x == c {
			return true
		}
	}
	return false
}
