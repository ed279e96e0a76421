package termui

import (
	"strings"

	"github.com/nsf/termbox-go"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

var defaultSeatAttrs = [game.Seats]termbox.Attribute{
	termbox.ColorBlue,
	termbox.ColorYellow,
	termbox.ColorRed,
	termbox.ColorGreen,
}

// termbox only has the eight basic colours in normal output mode.
var namedAttrs = map[string]termbox.Attribute{
	"blue":   termbox.ColorBlue,
	"yellow": termbox.ColorYellow,
	"orange": termbox.ColorYellow,
	"red":    termbox.ColorRed,
	"pink":   termbox.ColorMagenta,
	"purple": termbox.ColorMagenta,
	"green":  termbox.ColorGreen,
	"cyan":   termbox.ColorCyan,
	"white":  termbox.ColorWhite,
}

func seatAttrs(names []string) [game.Seats]termbox.Attribute {
	out := defaultSeatAttrs
	for i := 0; i < len(names) && i < game.Seats; i++ {
		if a, ok := namedAttrs[strings.ToLower(strings.TrimSpace(names[i]))]; ok {
			out[i] = a
		}
	}
	return out
}

func levelAttr(l game.Level) termbox.Attribute {
	switch l {
	case game.LevelWarn:
		return termbox.ColorYellow
	case game.LevelError:
		return termbox.ColorRed | termbox.AttrBold
	default:
		return termbox.ColorDefault
	}
}
