package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/divscout/client/internal/config"
	"github.com/divscout/client/internal/engine"
	"github.com/divscout/client/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	addr := flag.String("addr", "", "Override server websocket URL")
	interval := flag.Duration("interval", 0, "Override poll interval")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.URL = *addr
	}
	if *interval > 0 {
		cfg.Poll.Interval = *interval
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ws.NewClient(cfg.Server.URL), cfg.Poll.Interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		eng.Stop()
	}()

	log.Printf("Connecting to %s (poll every %v)", cfg.Server.URL, cfg.Poll.Interval)
	outcome, err := eng.Run(ctx)
	switch {
	case outcome == engine.OutcomeWin:
		log.Println("Session won")
		os.Exit(0)
	case outcome == engine.OutcomeLose:
		log.Println("Session lost")
		os.Exit(1)
	case err != nil:
		log.Printf("Session ended: %v", err)
		os.Exit(2)
	default:
		log.Println("Session stopped")
		os.Exit(2)
	}
}
