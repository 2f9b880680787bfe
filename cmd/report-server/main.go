package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-report-agent/internal/api/http"
	"github.com/i474232898/weather-report-agent/internal/config"
	"github.com/i474232898/weather-report-agent/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateReportServer(); err != nil {
		log.Fatalf("%v", err)
	}

	reports := store.NewReports(cfg.ReportsDir)

	app := httpapi.NewApp("report-server")
	httpapi.RegisterOpsRoutes(app, "report-server")
	// Static files are the catch-all, so it goes last.
	httpapi.RegisterReportRoutes(app, reports, cfg.ReportServer.StaticDir, time.Now)

	go func() {
		log.Printf("INFO: serving reports from %s and static files from %s on :%s",
			cfg.ReportsDir, cfg.ReportServer.StaticDir, cfg.ReportServer.Port)
		if err := app.Listen(":" + cfg.ReportServer.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
