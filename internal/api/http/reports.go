package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-report-agent/internal/metrics"
	"github.com/i474232898/weather-report-agent/internal/report"
	"github.com/i474232898/weather-report-agent/internal/store"
)

const reportNotFoundMessage = "Report not found for today"

// ReportLoader reads stored reports by date.
type ReportLoader interface {
	Load(date string) (json.RawMessage, error)
}

// RegisterReportRoutes serves today's report at /report and every other
// path from staticDir. Today is the local calendar date of now, which
// defaults to time.Now when nil.
func RegisterReportRoutes(app *fiber.App, reports ReportLoader, staticDir string, now func() time.Time) {
	if now == nil {
		now = time.Now
	}

	app.Get("/report", func(c *fiber.Ctx) error {
		date := report.LocalDate(now())

		raw, err := reports.Load(date)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respond(c, fiber.StatusNotFound, fiber.Map{"error": reportNotFoundMessage})
			}
			log.Printf("ERROR: failed to load report for %s: %v", date, err)
			return respond(c, fiber.StatusInternalServerError, fiber.Map{"error": "failed to read report"})
		}

		var body bytes.Buffer
		if err := json.Compact(&body, raw); err != nil {
			log.Printf("ERROR: failed to encode report for %s: %v", date, err)
			return respond(c, fiber.StatusInternalServerError, fiber.Map{"error": "failed to read report"})
		}

		metrics.ReportsServed.WithLabelValues(strconv.Itoa(fiber.StatusOK)).Inc()
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).Send(body.Bytes())
	})

	app.Static("/", staticDir, fiber.Static{
		Browse: true,
	})
}

func respond(c *fiber.Ctx, status int, body fiber.Map) error {
	metrics.ReportsServed.WithLabelValues(strconv.Itoa(status)).Inc()
	return c.Status(status).JSON(body)
}
