package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-report-agent/internal/config"
	"github.com/i474232898/weather-report-agent/internal/sensors"
	"github.com/i474232898/weather-report-agent/internal/store"
)

func main() {
	reset := flag.Bool("reset", false, "truncate the history file before logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateLogger(); err != nil {
		log.Fatalf("%v", err)
	}

	history := store.NewHistory(cfg.HistoryFile)
	if *reset {
		if err := history.Reset(); err != nil {
			log.Printf("ERROR: failed to reset history: %v", err)
		} else {
			log.Printf("INFO: %s has been reset", history.Path())
		}
	}

	logger := sensors.NewLogger(sensors.Options{
		Broker:   cfg.Logger.Broker,
		ClientID: cfg.Logger.ClientID,
		Interval: cfg.Logger.Interval,
	}, history)

	if err := logger.Connect(); err != nil {
		log.Fatalf("failed to connect to MQTT broker %s: %v", cfg.Logger.Broker, err)
	}
	defer logger.Close()
	log.Printf("INFO: logging sensor readings to %s every %s", history.Path(), cfg.Logger.Interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Run(ctx)
}
