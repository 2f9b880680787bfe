package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterOpsRoutes adds the health and Prometheus endpoints.
func RegisterOpsRoutes(app *fiber.App, service string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": service,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
