package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	httpapi "github.com/i474232898/weather-report-agent/internal/api/http"
	"github.com/i474232898/weather-report-agent/internal/config"
	"github.com/i474232898/weather-report-agent/internal/report"
	"github.com/i474232898/weather-report-agent/internal/scheduler"
	"github.com/i474232898/weather-report-agent/internal/store"
	"github.com/i474232898/weather-report-agent/internal/summarizer"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateAgent(); err != nil {
		log.Fatalf("%v", err)
	}

	history := store.NewHistory(cfg.HistoryFile)
	reports := store.NewReports(cfg.ReportsDir)

	llm := summarizer.NewOpenAI(summarizer.Config{
		APIKey:          cfg.Agent.OpenAIAPIKey,
		BaseURL:         cfg.Agent.OpenAIBaseURL,
		Model:           cfg.Agent.OpenAIModel,
		Timeout:         cfg.Agent.LLMTimeout,
		BreakerFailures: cfg.Agent.BreakerFailures,
	})

	// Shared by the scheduler goroutine and the HTTP handlers.
	pipeline := report.NewPipeline(history, llm, reports, report.Options{
		ResetHistory: cfg.Agent.ResetHistory,
	})

	sched, err := scheduler.New(cfg.Agent.ScheduleAt, cfg.Agent.SchedulePoll, time.Local, pipeline)
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := newApp(pipeline)

	go func() {
		log.Printf("INFO: weather agent listening on :%s", cfg.Agent.Port)
		if err := app.Listen(":" + cfg.Agent.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func newApp(runner httpapi.ReportRunner) *fiber.App {
	app := httpapi.NewApp("weather-agent")

	// The dashboard calls the agent from another origin.
	app.Use(cors.New())

	httpapi.RegisterOpsRoutes(app, "weather-agent")
	httpapi.RegisterAgentRoutes(app, runner)
	return app
}
