package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helioworks/solar-fleet-telemetry/internal/config"
	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
	"github.com/helioworks/solar-fleet-telemetry/internal/service"
)

// ErrorHandler maps error kinds onto the wire contract: caller mistakes
// are 400s, everything else (store failures included) is a 500. Every
// error body carries success=false and a message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var ve *domain.ValidationError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ve):
		status = fiber.StatusBadRequest
	case errors.As(err, &fe):
		status = fe.Code
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func errCloudDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success": false,
		"error":   "cloud services not enabled",
	})
}

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"service": config.ServiceName,
			"version": config.ServiceVersion,
			"status":  "running",
			"endpoints": []string{
				"GET /api/solar-data?limit=N",
				"POST /api/solar-data",
				"GET /api/solar-data/:panelName?limit=N",
				"GET /api/stats?days=N",
				"DELETE /api/solar-data/cleanup/:days",
				"GET /api/reports",
				"POST /api/reports/export?days=N",
			},
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/solar-data", func(c *fiber.Ctx) error {
		data, err := svcs.Query.LatestSnapshot(c.Context(), c.QueryInt("limit"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"count":     len(data),
			"data":      data,
			"timestamp": time.Now().UTC(),
		})
	})

	api.Post("/solar-data", func(c *fiber.Ctx) error {
		var batch domain.IngestBatch
		if err := c.BodyParser(&batch); err != nil {
			return &domain.ValidationError{Msg: "invalid request body: " + err.Error()}
		}
		result, err := svcs.Ingestion.Ingest(c.Context(), batch)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   fmt.Sprintf("ingested %d readings", len(result.Inserted)),
			"data":      result.Inserted,
			"timestamp": time.Now().UTC(),
		})
	})

	// Registered before the :panelName route so "cleanup" is never read as
	// a panel name.
	api.Delete("/solar-data/cleanup/:days", func(c *fiber.Ctx) error {
		days := c.Params("days")
		count, err := svcs.Retention.Cleanup(c.Context(), days)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("deleted %d readings older than %s days", count, days),
		})
	})

	api.Get("/solar-data/:panelName", func(c *fiber.Ctx) error {
		name := c.Params("panelName")
		data, err := svcs.Query.PanelHistory(c.Context(), name, c.QueryInt("limit"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"panelName": name,
			"count":     len(data),
			"data":      data,
		})
	})

	api.Get("/stats", func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 7)
		if days <= 0 {
			days = 7
		}
		data, err := svcs.Query.DailyStats(c.Context(), days)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"period":  fmt.Sprintf("%d days", days),
			"data":    data,
		})
	})

	api.Get("/reports", func(c *fiber.Ctx) error {
		if !svcs.Reports.Enabled() {
			return errCloudDisabled(c)
		}
		keys, err := svcs.Reports.ListReports(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(keys),
			"data":    keys,
		})
	})

	api.Post("/reports/export", func(c *fiber.Ctx) error {
		if !svcs.Reports.Enabled() {
			return errCloudDisabled(c)
		}
		days := c.QueryInt("days", 7)
		if days <= 0 {
			days = 7
		}
		url, err := svcs.Reports.ExportDailyStats(c.Context(), days)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "daily stats exported",
			"url":     url,
		})
	})
}
