package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"keyword-scout/internal/config"
	"keyword-scout/internal/service"
	"keyword-scout/pkg/logger"
)

// NewApp builds the fiber application with middleware and every route
// registered.
func NewApp(cfg config.ServerConfig, svc service.KeywordService) *fiber.App {
	log := logger.GetLogger().Component("http")

	app := fiber.New(fiber.Config{
		AppName:               "keyword-scout",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			}
			return jsonError(c, code, message)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(AccessLog(log))

	h := New(svc, cfg.RequestTimeout)

	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/keywords/generate", h.Generate)
	api.Get("/keywords/history", h.History)
	api.Get("/seeds", h.Seeds)

	return app
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
