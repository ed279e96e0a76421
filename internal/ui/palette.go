package ui

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

// defaultSeatColors is used when the authority does not report colours.
var defaultSeatColors = [game.Seats]color.RGBA{
	{R: 52, G: 110, B: 220, A: 255}, // blue
	{R: 236, G: 200, B: 40, A: 255}, // yellow
	{R: 214, G: 58, B: 52, A: 255},  // red
	{R: 60, G: 170, B: 80, A: 255},  // green
}

var namedColors = map[string]color.RGBA{
	"blue":   defaultSeatColors[0],
	"yellow": defaultSeatColors[1],
	"red":    defaultSeatColors[2],
	"green":  defaultSeatColors[3],
	"orange": {R: 240, G: 140, B: 30, A: 255},
	"purple": {R: 140, G: 70, B: 190, A: 255},
	"cyan":   {R: 40, G: 190, B: 200, A: 255},
	"pink":   {R: 230, G: 110, B: 170, A: 255},
}

var (
	colBackground = color.RGBA{R: 14, G: 16, B: 20, A: 255}
	colBoardEmpty = color.RGBA{R: 34, G: 38, B: 46, A: 255}
	colGrid       = color.RGBA{R: 58, G: 64, B: 76, A: 255}
	colPreview    = color.RGBA{R: 255, G: 255, B: 255, A: 90}
	colSlot       = color.RGBA{R: 26, G: 30, B: 38, A: 255}
	colSlotArmed  = color.RGBA{R: 60, G: 80, B: 110, A: 255}
	colText       = color.RGBA{R: 220, G: 224, B: 230, A: 255}
	colDim        = color.RGBA{R: 140, G: 146, B: 158, A: 255}
	colWarn       = color.RGBA{R: 240, G: 190, B: 80, A: 255}
	colError      = color.RGBA{R: 240, G: 110, B: 100, A: 255}
	colShade      = color.RGBA{R: 0, G: 0, B: 0, A: 150}
)

// parseColor accepts a colour name or #rgb / #rrggbb.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

// seatPalette resolves the colour of each seat, falling back per seat.
func seatPalette(names []string) [game.Seats]color.RGBA {
	out := defaultSeatColors
	for i := 0; i < len(names) && i < game.Seats; i++ {
		if c, ok := parseColor(names[i]); ok {
			out[i] = c
		}
	}
	return out
}

// ownerColor is the fill for a board cell owned by player (0 = empty).
func ownerColor(pal [game.Seats]color.RGBA, player int) color.RGBA {
	if player < 1 || player > game.Seats {
		return colBoardEmpty
	}
	return pal[player-1]
}

func levelColor(l game.Level) color.RGBA {
	switch l {
	case game.LevelWarn:
		return colWarn
	case game.LevelError:
		return colError
	default:
		return colText
	}
}
