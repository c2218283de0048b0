// server/http/handlers.go
package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ViniZap4/kanban-server/board"
	"github.com/ViniZap4/kanban-server/domain"
)

type Server struct {
	board *board.Service
	log   zerolog.Logger
}

func NewServer(b *board.Service, logger zerolog.Logger) *Server {
	return &Server{board: b, log: logger}
}

// errorResponse writes a fixed message. The cause only goes to the log.
func (s *Server) errorResponse(c *fiber.Ctx, status int, msg string, err error) error {
	if err != nil {
		s.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(msg)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// decode parses an optional JSON body into v. An empty body leaves v as is.
func decode(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func (s *Server) HandleListTasks(c *fiber.Ctx) error {
	tasks, err := s.board.ListTasks(c.UserContext())
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError, "Failed to load tasks", err)
	}
	return c.JSON(tasks)
}

func (s *Server) HandleUpdateStatus(c *fiber.Ctx) error {
	var req struct {
		CurrentStatus string `json:"currentStatus"`
	}
	if err := decode(c, &req); err != nil {
		return s.errorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	task, err := s.board.UpdateStatus(c.UserContext(), c.Params("taskId"), req.CurrentStatus)
	if errors.Is(err, board.ErrTaskNotFound) {
		return s.errorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

func (s *Server) HandleCreateTask(c *fiber.Ctx) error {
	var req domain.Task
	if err := decode(c, &req); err != nil {
		return s.errorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	taskID, task, err := s.board.CreateTask(c.UserContext(), req)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError, "Failed to add task", err)
	}

	return c.JSON(fiber.Map{"success": true, "taskId": taskID, "task": task})
}

func (s *Server) HandleListJournal(c *fiber.Ctx) error {
	entries, err := s.board.ListJournal(c.UserContext())
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError, "Failed to load journal", err)
	}
	return c.JSON(entries)
}

func (s *Server) HandleAddJournalEntry(c *fiber.Ctx) error {
	var req struct {
		Entry string `json:"entry"`
	}
	if err := decode(c, &req); err != nil {
		return s.errorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	entry, err := s.board.AddJournalEntry(c.UserContext(), req.Entry)
	if err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError, "Failed to add journal entry", err)
	}

	return c.JSON(fiber.Map{"success": true, "entry": entry})
}

// HandleUpdate reports success whether or not anything matched.
func (s *Server) HandleUpdate(c *fiber.Ctx) error {
	var req board.Update
	if err := decode(c, &req); err != nil {
		return s.errorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := s.board.ApplyUpdate(c.UserContext(), req); err != nil {
		return s.errorResponse(c, fiber.StatusInternalServerError, "Failed to apply updates", err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Updates applied"})
}

func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
