package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"EntryFeed/internal/di"
	"EntryFeed/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Local runs keep their knobs in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s policy=%s source=%s interval=%s",
		cfg.Environment, cfg.Entry.Policy, cfg.Prices.Source, cfg.Worker.Interval)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
