// Package health serves the liveness endpoints polled by uptime monitors.
package health

import (
	"fmt"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/logger"
	"github.com/gofiber/fiber/v2"
	"log/slog"
)

const aliveText = "🤖 Multi Function Bot is alive!"

// NewApp builds the fiber application with the two liveness routes.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(aliveText)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}

// Serve runs the liveness server; it blocks until the listener fails.
func Serve(listen string, port int) error {
	addr := fmt.Sprintf("%s:%d", listen, port)
	logger.Health.Info("health endpoint up",
		slog.String("event", "health.listen"),
		slog.String("listen", listen),
		slog.Int("port", port),
	)
	return NewApp().Listen(addr)
}
