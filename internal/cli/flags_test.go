package cli

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestRegister_EnvFallbacks(t *testing.T) {
	t.Setenv("BLOKUS_AUTHORITY", "ws://example:9000/ws")
	t.Setenv("BLOKUS_SEATS", "ai,ai,ai,ai")
	t.Setenv("BLOKUS_SKIP_DELAY", "250")
	t.Setenv("BLOKUS_MAX_SKIPS", "3")
	t.Setenv("BLOKUS_DEBUG", "yes")

	fs := newFlagSet()
	s := Register(fs, "human,ai,ai,ai")
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if s.Authority != "ws://example:9000/ws" || s.Seats != "ai,ai,ai,ai" {
		t.Fatalf("env not applied: %+v", s)
	}
	if s.SkipDelay != 250*time.Millisecond || s.MaxSkips != 3 || !s.Debug {
		t.Fatalf("env not applied: %+v", s)
	}
}

func TestRegister_FlagsWin(t *testing.T) {
	t.Setenv("BLOKUS_SKIP_DELAY", "2s")
	fs := newFlagSet()
	s := Register(fs, "human,ai,ai,ai")
	if err := fs.Parse([]string{"-skip-delay", "10ms", "-seats", "human,human,ai,ai"}); err != nil {
		t.Fatal(err)
	}
	if s.SkipDelay != 10*time.Millisecond {
		t.Fatalf("flag should win, got %s", s.SkipDelay)
	}
	seats, err := s.SeatTypes()
	if err != nil {
		t.Fatal(err)
	}
	if seats[1] != game.SeatHuman || seats[2] != game.SeatAI {
		t.Fatalf("unexpected seats %v", seats)
	}
}

func TestRegister_Defaults(t *testing.T) {
	fs := newFlagSet()
	s := Register(fs, "human,ai,ai,ai")
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := s.Config()
	if err != nil {
		t.Fatal(err)
	}
	def := game.DefaultConfig()
	if cfg.SkipDelay != def.SkipDelay || cfg.MaxSkipChain != 0 || cfg.RequestTimeout != def.RequestTimeout {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if s.AIKind != "greedy" || s.Authority != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestConfig_RejectsBadValues(t *testing.T) {
	for _, s := range []Settings{
		{SkipDelay: -time.Second, Timeout: time.Second},
		{MaxSkips: -1, Timeout: time.Second},
		{Timeout: 0},
	} {
		if _, err := s.Config(); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
}

func TestGetenvDuration_BadValueKeepsDefault(t *testing.T) {
	t.Setenv("BLOKUS_TEST_DUR", "soon")
	if got := getenvDuration("BLOKUS_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("expected default, got %s", got)
	}
}
