// server/client/client.go
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/kanban-server/board"
	"github.com/ViniZap4/kanban-server/domain"
)

// APIError is a non-2xx reply; Message is the server's "error" field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kanban api: %d %s", e.StatusCode, e.Message)
}

// Client calls the board API. It never retries.
type Client struct {
	BaseURL string
	// Timeout bounds each request; zero means no limit.
	Timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

type TaskResult struct {
	Success bool        `json:"success"`
	Task    domain.Task `json:"task"`
}

type CreateTaskResult struct {
	Success bool        `json:"success"`
	TaskID  string      `json:"taskId"`
	Task    domain.Task `json:"task"`
}

type JournalResult struct {
	Success bool                `json:"success"`
	Entry   domain.JournalEntry `json:"entry"`
}

type UpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) GetTasks() (domain.TaskMap, error) {
	var tasks domain.TaskMap
	err := c.do(fiber.Get(c.BaseURL+"/api/tasks"), &tasks)
	return tasks, err
}

// MoveTask sets a task's currentStatus. An unknown id yields an *APIError
// with status 404.
func (c *Client) MoveTask(taskID, status string) (TaskResult, error) {
	var res TaskResult
	a := fiber.Put(c.BaseURL + "/api/tasks/" + url.PathEscape(taskID) + "/status").
		JSON(map[string]string{"currentStatus": status})
	err := c.do(a, &res)
	return res, err
}

func (c *Client) AddTask(task domain.Task) (CreateTaskResult, error) {
	var res CreateTaskResult
	err := c.do(fiber.Post(c.BaseURL+"/api/tasks").JSON(task), &res)
	return res, err
}

func (c *Client) GetJournal() ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	err := c.do(fiber.Get(c.BaseURL+"/api/journal"), &entries)
	return entries, err
}

func (c *Client) AddJournalEntry(entry string) (JournalResult, error) {
	var res JournalResult
	a := fiber.Post(c.BaseURL + "/api/journal").JSON(map[string]string{"entry": entry})
	err := c.do(a, &res)
	return res, err
}

// QuickUpdate moves a task and/or appends to the journal in one call.
func (c *Client) QuickUpdate(u board.Update) (UpdateResult, error) {
	var res UpdateResult
	err := c.do(fiber.Post(c.BaseURL+"/api/nova/update").JSON(u), &res)
	return res, err
}

func (c *Client) Health() error {
	return c.do(fiber.Get(c.BaseURL+"/health"), nil)
}

func (c *Client) do(a *fiber.Agent, out any) error {
	if c.Timeout > 0 {
		a.Timeout(c.Timeout)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}

	if code < 200 || code >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: code, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
