package termui

import (
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// canvas is the cell grid the app draws into.
type canvas interface {
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
}

type termboxCanvas struct{}

func (termboxCanvas) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}

// printAt writes s from (x, y), clipped to width columns. Wide runes take
// two columns. Returns the number of columns written.
func printAt(c canvas, x, y, width int, s string, fg, bg termbox.Attribute) int {
	if width <= 0 {
		return 0
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "~")
	}
	col := 0
	for _, r := range s {
		c.SetCell(x+col, y, r, fg, bg)
		col += runewidth.RuneWidth(r)
	}
	return col
}

// fill paints a w×h block with ch.
func fill(c canvas, x, y, w, h int, ch rune, fg, bg termbox.Attribute) {
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			c.SetCell(x+i, y+j, ch, fg, bg)
		}
	}
}
