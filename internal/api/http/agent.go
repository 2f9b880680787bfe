package httpapi

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-report-agent/internal/report"
)

// generateFailedMessage is the body of a failed manual trigger.
const generateFailedMessage = "No se pudo generar el informe."

// ReportRunner runs the report pipeline.
type ReportRunner interface {
	Run(ctx context.Context, trigger report.Trigger) (*report.Report, error)
}

// RegisterAgentRoutes wires the manual trigger endpoint into the Fiber app.
// The pipeline runs on the request goroutine and the response is sent only
// once the language model has answered.
func RegisterAgentRoutes(app *fiber.App, runner ReportRunner) {
	app.Post("/generate-report", func(c *fiber.Ctx) error {
		log.Println("INFO: manual report generation requested")

		rep, err := runner.Run(c.UserContext(), report.TriggerManual)
		if err != nil {
			log.Printf("ERROR: manual report generation failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": generateFailedMessage,
			})
		}
		return c.JSON(rep)
	})
}
