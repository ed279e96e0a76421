// Package cli holds the flag and environment handling shared by the
// commands under cmd/.
package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/Blokus-Client/internal/authority"
	"github.com/Garsondee/Blokus-Client/internal/game"
)

// Settings are the knobs every command understands.
type Settings struct {
	Authority string
	Seats     string
	AIKind    string
	SkipDelay time.Duration
	MaxSkips  int
	Timeout   time.Duration
	Debug     bool
}

// Register binds the shared flags on fs. Each default can be overridden by
// its BLOKUS_* environment variable; explicit flags win over both.
func Register(fs *flag.FlagSet, defaultSeats string) *Settings {
	def := game.DefaultConfig()
	s := &Settings{}
	fs.StringVar(&s.Authority, "authority", getenv("BLOKUS_AUTHORITY", "http://127.0.0.1:5000"), "authority base URL (http, https, ws or wss)")
	fs.StringVar(&s.Seats, "seats", getenv("BLOKUS_SEATS", defaultSeats), "comma-separated seat types, e.g. human,ai,ai,ai")
	fs.StringVar(&s.AIKind, "ai-kind", getenv("BLOKUS_AI_KIND", "greedy"), "AI strategy for ai seats: "+strings.Join(authority.AIKinds, ", "))
	fs.DurationVar(&s.SkipDelay, "skip-delay", getenvDuration("BLOKUS_SKIP_DELAY", def.SkipDelay), "pause before auto-ending a turn with no valid moves")
	fs.IntVar(&s.MaxSkips, "max-skips", getenvInt("BLOKUS_MAX_SKIPS", def.MaxSkipChain), "stop a skip chain after this many skips (0 = unbounded)")
	fs.DurationVar(&s.Timeout, "timeout", getenvDuration("BLOKUS_TIMEOUT", def.RequestTimeout), "per-request timeout")
	fs.BoolVar(&s.Debug, "debug", getenb("BLOKUS_DEBUG", false), "development logging")
	return s
}

// Config applies the settings over the default core configuration.
func (s *Settings) Config() (game.Config, error) {
	cfg := game.DefaultConfig()
	if s.SkipDelay < 0 {
		return cfg, fmt.Errorf("skip delay must not be negative, got %s", s.SkipDelay)
	}
	if s.MaxSkips < 0 {
		return cfg, fmt.Errorf("max skips must not be negative, got %d", s.MaxSkips)
	}
	if s.Timeout <= 0 {
		return cfg, fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	cfg.SkipDelay = s.SkipDelay
	cfg.MaxSkipChain = s.MaxSkips
	cfg.RequestTimeout = s.Timeout
	return cfg, nil
}

// SeatTypes parses the seat list.
func (s *Settings) SeatTypes() ([game.Seats]game.SeatType, error) {
	return game.ParseSeats(s.Seats)
}

// Logger builds the operator logger.
func (s *Settings) Logger() (*zap.Logger, error) {
	if s.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Dial connects to the configured authority.
func (s *Settings) Dial(ctx context.Context, logger *zap.Logger) (*authority.Client, error) {
	return authority.Dial(ctx, s.Authority,
		authority.WithLogger(logger),
		authority.WithAIKind(s.AIKind),
		authority.WithHTTPClient(&http.Client{Timeout: s.Timeout}),
	)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// getenvDuration accepts Go durations ("1.5s") or plain milliseconds.
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
