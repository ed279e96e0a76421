package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/Blokus-Client/internal/cli"
	"github.com/Garsondee/Blokus-Client/internal/game"
)

var errStalled = errors.New("session stalled")

type runStats struct {
	runIndex int
	took     time.Duration

	rankings []game.Ranking
	winners  []int

	aiMoves   int
	placed    int
	turns     int
	skips     int
	endTurns  int
	errors    int
	resumes   []string
	maxChain  int
	lastError string
}

func main() {
	settings := cli.Register(flag.CommandLine, "ai,ai,ai,ai")
	var runs, resumes int
	flag.IntVar(&runs, "runs", 1, "number of full sessions to play")
	flag.IntVar(&resumes, "resume", 0, "times a run may resume the AI after a failed move")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if resumes < 0 {
		fmt.Println("error: -resume must be >= 0")
		os.Exit(2)
	}
	seats, err := settings.SeatTypes()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}
	if err := requireAI(seats); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}
	cfg, err := settings.Config()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}
	logger, err := settings.Logger()
	if err != nil {
		fmt.Printf("error: logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	client, err := settings.Dial(ctx, logger)
	if err != nil {
		fmt.Printf("error: authority: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Printf("=== Headless Session Report ===\n")
	fmt.Printf("authority=%s seats=%s ai_kind=%s runs=%d resume=%d skip_delay=%s max_skips=%d\n\n",
		settings.Authority, game.FormatSeats(seats), settings.AIKind, runs, resumes, cfg.SkipDelay, cfg.MaxSkipChain)

	all := make([]runStats, 0, runs)
	failed := 0
	for i := 0; i < runs; i++ {
		stats, err := playRun(ctx, client, cfg, seats, logger, i+1, resumes)
		printRun(stats, err)
		if err != nil {
			failed++
			continue
		}
		all = append(all, stats)
	}
	printAggregate(all, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// requireAI refuses seat lists a headless run could never finish.
func requireAI(seats [game.Seats]game.SeatType) error {
	for i, s := range seats {
		if s != game.SeatAI {
			return fmt.Errorf("seat %d is %s; headless runs need every seat set to ai", i+1, s)
		}
	}
	return nil
}

// playRun resets the authority and drives one session to game over,
// resuming a stopped AI chain at most maxResumes times.
func playRun(ctx context.Context, auth game.Authority, cfg game.Config, seats [game.Seats]game.SeatType, logger *zap.Logger, index, maxResumes int) (runStats, error) {
	start := time.Now()
	rs := runStats{runIndex: index}

	resetCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	_, err := auth.Restart(resetCtx)
	cancel()
	if err != nil {
		return rs, fmt.Errorf("reset authority: %w", err)
	}

	events := game.NewEventLog()
	s := game.NewSession(ctx, auth, cfg, game.WithLogger(logger.With(zap.Int("run", index))), game.WithEventLog(events))
	defer s.Close()

	if err := s.ConfigureSeats(seats); err != nil {
		return rs, err
	}
	err = drive(ctx, s, &rs, maxResumes)
	rs.took = time.Since(start)
	collect(&rs, events)
	if err != nil {
		return rs, err
	}
	rs.rankings = s.Rankings()
	rs.winners = game.Winners(rs.rankings)
	return rs, nil
}

// drive pumps s until the game is over. Skips are waited out in real time.
func drive(ctx context.Context, s *game.Session, rs *runStats, maxResumes int) error {
	for s.Phase() != game.PhaseGameOver {
		if err := s.Wait(ctx); err != nil {
			return err
		}
		if s.Phase() == game.PhaseGameOver {
			return nil
		}
		if at, ok := s.SkipDeadline(); ok {
			if err := sleepUntil(ctx, at); err != nil {
				return err
			}
			s.Update()
			continue
		}
		if s.Pending() {
			continue
		}
		// Idle with nothing scheduled: the AI chain stopped on an error.
		last := s.LastError()
		if last == nil || len(rs.resumes) >= maxResumes {
			return fmt.Errorf("%w in %s: %v", errStalled, s.Phase(), last)
		}
		rs.resumes = append(rs.resumes, fmt.Sprintf("player=%d after=%v", s.ActivePlayer(), last))
		if err := s.ResumeAI(); err != nil {
			return fmt.Errorf("%w: resume: %v (after %v)", errStalled, err, last)
		}
	}
	return nil
}

func sleepUntil(ctx context.Context, at time.Time) error {
	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// collect derives the run counters from the session event log.
func collect(rs *runStats, events *game.EventLog) {
	rs.aiMoves = events.Count("ai", "moved")
	rs.placed = events.Count("place", "ok")
	rs.turns = events.Count("turn", "advance")
	rs.skips = events.Count("skip", "fire")
	rs.endTurns = events.Count("request", "end_turn")
	rs.errors = events.Count("error", "")
	if e, ok := events.LastOf("error", ""); ok {
		rs.lastError = e.Key + ": " + e.Value
	}
	rs.maxChain = longestSkipChain(events.Entries())
}

// longestSkipChain counts the most consecutive skips not broken by a move.
func longestSkipChain(entries []game.Event) int {
	best, cur := 0, 0
	for _, e := range entries {
		switch {
		case e.Category == "skip" && e.Key == "fire":
			cur++
			if cur > best {
				best = cur
			}
		case e.Category == "ai" && e.Key == "moved", e.Category == "place" && e.Key == "ok":
			cur = 0
		}
	}
	return best
}

func printRun(rs runStats, err error) {
	fmt.Printf("--- Run %d (%s) ---\n", rs.runIndex, rs.took.Round(time.Millisecond))
	if err != nil {
		fmt.Printf("result: FAILED %v\n", err)
	} else {
		fmt.Printf("result: winners=%s score_spread=%d\n", joinInts(rs.winners), scoreSpread(rs.rankings))
	}
	fmt.Printf("event_totals: ai_move=%d place=%d turn_advance=%d end_turn=%d skip=%d longest_skip_chain=%d errors=%d resumes=%d\n",
		rs.aiMoves, rs.placed, rs.turns, rs.endTurns, rs.skips, rs.maxChain, rs.errors, len(rs.resumes))
	for i, r := range rs.resumes {
		fmt.Printf("resume %d: %s\n", i+1, r)
	}
	if rs.lastError != "" {
		fmt.Printf("last_error: %s\n", rs.lastError)
	}
	fmt.Print(game.FormatRankings(rs.rankings))
	fmt.Println()
}

func printAggregate(all []runStats, failed int) {
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs_ok=%d runs_failed=%d\n", len(all), failed)
	if len(all) == 0 {
		return
	}

	totalAI, totalSkips, totalErrors := 0, 0, 0
	var totalTook time.Duration
	wins := map[int]float64{}
	scores := map[int]int{}
	for _, rs := range all {
		totalAI += rs.aiMoves
		totalSkips += rs.skips
		totalErrors += rs.errors
		totalTook += rs.took
		// Shared wins count fractionally.
		for _, w := range rs.winners {
			wins[w] += 1 / float64(len(rs.winners))
		}
		for _, r := range rs.rankings {
			scores[r.PlayerID] += r.Score
		}
	}
	fmt.Printf("avg_per_run: ai_move=%.1f skip=%.1f errors=%.1f duration=%s\n",
		avg(totalAI, len(all)), avg(totalSkips, len(all)), avg(totalErrors, len(all)),
		(totalTook / time.Duration(len(all))).Round(time.Millisecond))

	players := make([]int, 0, len(scores))
	for p := range scores {
		players = append(players, p)
	}
	sort.Ints(players)
	for _, p := range players {
		fmt.Printf("  Player %d  wins=%.1f  avg_score=%.1f\n", p, wins[p], avg(scores[p], len(all)))
	}
}

// scoreSpread is the gap between the best and worst final score.
func scoreSpread(rankings []game.Ranking) int {
	if len(rankings) == 0 {
		return 0
	}
	lo, hi := rankings[0].Score, rankings[0].Score
	for _, r := range rankings[1:] {
		lo = min(lo, r.Score)
		hi = max(hi, r.Score)
	}
	return hi - lo
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func joinInts(vals []int) string {
	if len(vals) == 0 {
		return "none"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
