package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Garsondee/Blokus-Client/internal/cli"
	"github.com/Garsondee/Blokus-Client/internal/game"
	"github.com/Garsondee/Blokus-Client/internal/termui"
)

func main() {
	settings := cli.Register(flag.CommandLine, "human,ai,ai,ai")
	logFile := flag.String("log", "", "write the operator log to this file (stderr would corrupt the screen)")
	flag.Parse()

	logger := zap.NewNop()
	if *logFile != "" {
		cfg := zap.NewProductionConfig()
		if settings.Debug {
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.OutputPaths = []string{*logFile}
		cfg.ErrorOutputPaths = []string{*logFile}
		l, err := cfg.Build()
		if err != nil {
			log.Fatalf("logger: %v", err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := settings.Config()
	if err != nil {
		log.Fatal(err)
	}
	seats, err := settings.SeatTypes()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := settings.Dial(ctx, logger)
	if err != nil {
		log.Fatalf("authority: %v", err)
	}
	defer client.Close()

	session := game.NewSession(ctx, client, cfg, game.WithLogger(logger))
	defer session.Close()

	if err := termui.New(session, cfg, seats, logger).Run(ctx); err != nil {
		log.Fatal(err)
	}
}
