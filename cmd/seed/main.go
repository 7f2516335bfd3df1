// Command seed applies migrations and loads the static catalog into the
// reference tables.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/m3rciful/transitbot/bot"
	"github.com/m3rciful/transitbot/core/bootstrap"
	"github.com/m3rciful/transitbot/core/logger"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := bot.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("seed: load config: %v", err)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		log.Fatalf("seed: bootstrap: %v", err)
	}
	defer func() {
		_ = res.DB.Close()
		_ = logger.Shutdown()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := bot.ReferenceSeeder.Seed(ctx, res.DB); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed: reference data loaded")
}
