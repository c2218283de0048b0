// server/http/routes.go
package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp wires the API routes. publicDir, when set, is served at /.
func NewApp(s *Server, publicDir string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "kanban-server",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, PUT, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(s.requestLogger)

	api := app.Group("/api")
	api.Get("/tasks", s.HandleListTasks)
	api.Post("/tasks", s.HandleCreateTask)
	api.Put("/tasks/:taskId/status", s.HandleUpdateStatus)
	api.Get("/journal", s.HandleListJournal)
	api.Post("/journal", s.HandleAddJournalEntry)
	api.Post("/nova/update", s.HandleUpdate)

	app.Get("/health", s.HandleHealth)

	if publicDir != "" {
		app.Static("/", publicDir)
	}

	return app
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	// A returned error is turned into a response by the error handler only
	// after this middleware unwinds, so take its status from the error.
	status := c.Response().StatusCode()
	evt := s.log.Debug()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		evt = s.log.Warn().Err(err)
	}
	evt.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}
