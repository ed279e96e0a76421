package game

import "image"

// traySlotCells is the side of a tray slot in piece cells; every standard
// piece fits in 5×5.
const traySlotCells = 5

// traySlotGap is the spacing between tray slots, in pixels.
const traySlotGap = 8

// Layout maps screen positions to board cells and tray slots. Units are
// whatever the renderer draws in: pixels for the window, character cells for
// the terminal.
type Layout struct {
	BoardOrigin image.Point
	CellW       int
	CellH       int

	TrayOrigin  image.Point
	TrayColumns int
	TrayCellPx  int
}

// NewLayout builds the window layout from cfg.
func NewLayout(cfg Config) Layout {
	return Layout{
		BoardOrigin: image.Pt(cfg.BoardOriginX, cfg.BoardOriginY),
		CellW:       cfg.CellSizePx,
		CellH:       cfg.CellSizePx,
		TrayOrigin:  image.Pt(cfg.TrayOriginX, cfg.TrayOriginY),
		TrayColumns: cfg.TrayColumns,
		TrayCellPx:  cfg.TrayCellPx,
	}
}

// BoardRect is the screen area covered by the board.
func (l Layout) BoardRect() image.Rectangle {
	return image.Rectangle{
		Min: l.BoardOrigin,
		Max: l.BoardOrigin.Add(image.Pt(BoardSize*l.CellW, BoardSize*l.CellH)),
	}
}

// CellAt returns the board cell under p.
func (l Layout) CellAt(p image.Point) (Cell, bool) {
	if l.CellW <= 0 || l.CellH <= 0 || !p.In(l.BoardRect()) {
		return Cell{}, false
	}
	d := p.Sub(l.BoardOrigin)
	return Cell{Row: d.Y / l.CellH, Col: d.X / l.CellW}, true
}

// CellRect is the screen area of board cell c.
func (l Layout) CellRect(c Cell) image.Rectangle {
	lo := l.BoardOrigin.Add(image.Pt(c.Col*l.CellW, c.Row*l.CellH))
	return image.Rectangle{Min: lo, Max: lo.Add(image.Pt(l.CellW, l.CellH))}
}

func (l Layout) slotSize() int {
	return traySlotCells*l.TrayCellPx + traySlotGap
}

// SlotRect is the screen area of tray slot i.
func (l Layout) SlotRect(i int) image.Rectangle {
	cols := l.TrayColumns
	if cols <= 0 {
		cols = 1
	}
	sz := l.slotSize()
	lo := l.TrayOrigin.Add(image.Pt((i%cols)*sz, (i/cols)*sz))
	return image.Rectangle{Min: lo, Max: lo.Add(image.Pt(sz-traySlotGap, sz-traySlotGap))}
}

// TrayRect is the area spanned by a tray holding n pieces.
func (l Layout) TrayRect(n int) image.Rectangle {
	cols := l.TrayColumns
	if cols <= 0 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}
	sz := l.slotSize()
	return image.Rectangle{Min: l.TrayOrigin, Max: l.TrayOrigin.Add(image.Pt(cols*sz, rows*sz))}
}

// SlotAt returns the index of the tray slot under p, for a tray of n pieces.
func (l Layout) SlotAt(p image.Point, n int) (int, bool) {
	if !p.In(l.TrayRect(n)) {
		return 0, false
	}
	for i := 0; i < n; i++ {
		if p.In(l.SlotRect(i)) {
			return i, true
		}
	}
	return 0, false
}
