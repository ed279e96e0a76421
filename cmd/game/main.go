package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/Blokus-Client/internal/cli"
	"github.com/Garsondee/Blokus-Client/internal/game"
	"github.com/Garsondee/Blokus-Client/internal/ui"
)

func main() {
	settings := cli.Register(flag.CommandLine, "human,ai,ai,ai")
	flag.Parse()

	logger, err := settings.Logger()
	if err != nil {
		log.Fatalf("logger: %v", err)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := settings.Dial(ctx, logger)
	if err != nil {
		log.Fatalf("authority: %v", err)
	}
	defer client.Close()
	logger.Info("authority connected",
		zap.String("url", settings.Authority),
		zap.String("session_id", client.SessionID()),
	)

	session := game.NewSession(ctx, client, cfg, game.WithLogger(logger))
	defer session.Close()

	g := ui.New(session, cfg, seats, logger)
	w, h := g.Size()
	ebiten.SetWindowTitle("Blokus")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
