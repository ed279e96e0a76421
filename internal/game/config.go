package game

import "time"

// Config carries the tunables shared by the core and the renderers.
type Config struct {
	// CellSizePx and PaddingPx fix where a dragged piece sits relative to the
	// cursor. Pixel-parity with the reference client needs 30 and 25.
	CellSizePx int
	PaddingPx  int

	// SkipDelay is the pause before an automatic end-turn for a seat with no
	// valid moves.
	SkipDelay time.Duration
	// MaxSkipChain aborts a skip chain after this many consecutive skips.
	// Zero leaves the chain unbounded.
	MaxSkipChain int

	RequestTimeout time.Duration

	BoardOriginX int
	BoardOriginY int
	TrayOriginX  int
	TrayOriginY  int
	TrayColumns  int
	TrayCellPx   int
}

// DefaultConfig returns the reference values.
func DefaultConfig() Config {
	return Config{
		CellSizePx:     30,
		PaddingPx:      25,
		SkipDelay:      time.Second,
		MaxSkipChain:   0,
		RequestTimeout: 10 * time.Second,
		BoardOriginX:   24,
		BoardOriginY:   56,
		TrayOriginX:    24 + BoardSize*30 + 24,
		TrayOriginY:    56,
		TrayColumns:    6,
		TrayCellPx:     14,
	}
}
