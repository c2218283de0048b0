package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/kanban-server/board"
	"github.com/ViniZap4/kanban-server/domain"
	"github.com/ViniZap4/kanban-server/store"
)

var testNow = time.Date(2024, 2, 5, 14, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	_, err := store.Seed(context.Background(), mem, testNow.Add(-time.Hour))
	require.NoError(t, err)

	svc := board.NewService(mem, board.WithClock(func() time.Time { return testNow }))
	return NewApp(NewServer(svc, zerolog.Nop()), ""), mem
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestListTasks(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := request(t, app, fiber.MethodGet, "/api/tasks", nil)
	require.Equal(t, fiber.StatusOK, status)

	var tasks domain.TaskMap
	require.NoError(t, json.Unmarshal(body, &tasks))
	require.Contains(t, tasks, store.SeedTaskID)
	fields, err := tasks[store.SeedTaskID].Fields()
	require.NoError(t, err)
	assert.Len(t, fields.Subtasks, 3)
}

func TestUpdateStatus(t *testing.T) {
	app, mem := newTestApp(t)

	status, body := request(t, app, fiber.MethodPut, "/api/tasks/sam-scripts/status", map[string]string{"currentStatus": "In Progress"})
	require.Equal(t, fiber.StatusOK, status)

	var res struct {
		Success bool        `json:"success"`
		Task    domain.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "In Progress", res.Task.CurrentStatus())
	assert.Equal(t, "2024-02-05T14:30:00.000Z", res.Task.UpdatedAt())
	assert.Equal(t, "Sam Ad Script Review", res.Task.String("title"))

	tasks, _ := mem.LoadTasks(context.Background())
	assert.Equal(t, "In Progress", tasks[store.SeedTaskID].CurrentStatus())
}

func TestUpdateStatusNotFound(t *testing.T) {
	app, mem := newTestApp(t)
	before, _ := mem.LoadTasks(context.Background())

	status, body := request(t, app, fiber.MethodPut, "/api/tasks/nope/status", map[string]string{"currentStatus": "Done"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Task not found"}`, string(body))

	after, _ := mem.LoadTasks(context.Background())
	assert.Equal(t, before, after)
}

func TestCreateTask(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := request(t, app, fiber.MethodPost, "/api/tasks", map[string]any{
		"id":            "blog-post-feb5",
		"title":         "Sam McGuire Blog Post",
		"description":   "The $40K Mistake Most Glen Abbey Buyers Make",
		"status":        "Urgent",
		"category":      "LYNKS",
		"currentStatus": "In Progress",
		"assignee":      "Nova",
		"priority":      "Urgent",
		"tokens":        "~$2 tokens",
	})
	require.Equal(t, fiber.StatusOK, status)

	var res struct {
		Success bool        `json:"success"`
		TaskID  string      `json:"taskId"`
		Task    domain.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "blog-post-feb5", res.TaskID)
	assert.Equal(t, "Nova", res.Task.String("assignee"))
	assert.Equal(t, "2024-02-05T14:30:00.000Z", res.Task.UpdatedAt())

	_, body = request(t, app, fiber.MethodGet, "/api/tasks", nil)
	var tasks domain.TaskMap
	require.NoError(t, json.Unmarshal(body, &tasks))
	assert.Equal(t, res.Task, tasks["blog-post-feb5"])
}

func TestCreateTaskKeepsArbitraryFields(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := request(t, app, fiber.MethodPost, "/api/tasks", `{"id":"n","title":"T","priority":1,"dueDate":"tomorrow"}`)
	require.Equal(t, fiber.StatusOK, status)

	var res struct {
		Task map[string]any `json:"task"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, float64(1), res.Task["priority"])
	assert.Equal(t, "tomorrow", res.Task["dueDate"])
	assert.NotContains(t, res.Task, "description")

	status, _ = request(t, app, fiber.MethodPut, "/api/tasks/n/status", map[string]string{"currentStatus": "Done"})
	require.Equal(t, fiber.StatusOK, status)

	_, body = request(t, app, fiber.MethodGet, "/api/tasks", nil)
	var tasks map[string]map[string]any
	require.NoError(t, json.Unmarshal(body, &tasks))
	assert.Equal(t, map[string]any{
		"id":            "n",
		"title":         "T",
		"priority":      float64(1),
		"dueDate":       "tomorrow",
		"currentStatus": "Done",
		"updatedAt":     "2024-02-05T14:30:00.000Z",
	}, tasks["n"])
}

func TestCreateTaskWithoutID(t *testing.T) {
	app, _ := newTestApp(t)

	ids := map[string]bool{}
	for i := 0; i < 2; i++ {
		status, body := request(t, app, fiber.MethodPost, "/api/tasks", map[string]string{"title": "quick"})
		require.Equal(t, fiber.StatusOK, status)

		var res struct {
			TaskID string      `json:"taskId"`
			Task   domain.Task `json:"task"`
		}
		require.NoError(t, json.Unmarshal(body, &res))
		assert.NotEmpty(t, res.TaskID)
		assert.Equal(t, domain.DefaultStatus, res.Task.CurrentStatus())
		ids[res.TaskID] = true
	}
	assert.Len(t, ids, 2)
}

func TestJournal(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := request(t, app, fiber.MethodGet, "/api/journal", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = request(t, app, fiber.MethodPost, "/api/journal", map[string]string{"entry": "Fixed modal bug"})
	require.Equal(t, fiber.StatusOK, status)

	var res struct {
		Success bool                `json:"success"`
		Entry   domain.JournalEntry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "Fixed modal bug", res.Entry.Entry)
	assert.Equal(t, "Mon Feb 05 2024", res.Entry.Date)
	assert.Equal(t, testNow.UnixMilli(), res.Entry.ID)

	_, body = request(t, app, fiber.MethodGet, "/api/journal", nil)
	var entries []domain.JournalEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, res.Entry, entries[0])
}

func TestJournalListIsCapped(t *testing.T) {
	app, mem := newTestApp(t)

	var seed []domain.JournalEntry
	for i := 0; i < 75; i++ {
		seed = append(seed, domain.JournalEntry{ID: int64(i), Entry: "e"})
	}
	require.NoError(t, mem.SaveJournal(context.Background(), seed))

	_, body := request(t, app, fiber.MethodGet, "/api/journal", nil)
	var entries []domain.JournalEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, board.JournalLimit)
	assert.Equal(t, int64(25), entries[0].ID)
	assert.Equal(t, int64(74), entries[49].ID)
}

func TestCombinedUpdate(t *testing.T) {
	t.Run("unknown task still succeeds", func(t *testing.T) {
		app, mem := newTestApp(t)

		status, body := request(t, app, fiber.MethodPost, "/api/nova/update", map[string]string{"taskId": "nope", "status": "Done"})
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{"success":true,"message":"Updates applied"}`, string(body))

		entries, _ := mem.LoadJournal(context.Background())
		assert.Empty(t, entries)
	})

	t.Run("status and journal", func(t *testing.T) {
		app, mem := newTestApp(t)

		status, _ := request(t, app, fiber.MethodPost, "/api/nova/update", map[string]string{
			"taskId":       "sam-scripts",
			"status":       "Done",
			"journalEntry": "Completed Sam ad script review",
		})
		require.Equal(t, fiber.StatusOK, status)

		tasks, _ := mem.LoadTasks(context.Background())
		assert.Equal(t, "Done", tasks[store.SeedTaskID].CurrentStatus())
		entries, _ := mem.LoadJournal(context.Background())
		require.Len(t, entries, 1)
		assert.Equal(t, "Completed Sam ad script review", entries[0].Entry)
	})

	t.Run("empty body", func(t *testing.T) {
		app, _ := newTestApp(t)

		status, _ := request(t, app, fiber.MethodPost, "/api/nova/update", nil)
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestInvalidBody(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := request(t, app, fiber.MethodPost, "/api/journal", "{oops")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, string(body))
}

type brokenStore struct{}

var errBroken = errors.New("read /data/tasks.json: input/output error")

func (brokenStore) LoadTasks(context.Context) (domain.TaskMap, error) { return nil, errBroken }
func (brokenStore) SaveTasks(context.Context, domain.TaskMap) error   { return errBroken }
func (brokenStore) LoadJournal(context.Context) ([]domain.JournalEntry, error) {
	return nil, errBroken
}
func (brokenStore) SaveJournal(context.Context, []domain.JournalEntry) error { return errBroken }

func TestStoreFailuresAreGeneric(t *testing.T) {
	app := NewApp(NewServer(board.NewService(brokenStore{}), zerolog.Nop()), "")

	cases := []struct {
		method, path string
		body         any
		want         string
	}{
		{fiber.MethodGet, "/api/tasks", nil, "Failed to load tasks"},
		{fiber.MethodPut, "/api/tasks/x/status", map[string]string{"currentStatus": "Done"}, "Failed to update task"},
		{fiber.MethodPost, "/api/tasks", map[string]string{"title": "t"}, "Failed to add task"},
		{fiber.MethodGet, "/api/journal", nil, "Failed to load journal"},
		{fiber.MethodPost, "/api/journal", map[string]string{"entry": "e"}, "Failed to add journal entry"},
		{fiber.MethodPost, "/api/nova/update", map[string]string{"journalEntry": "e"}, "Failed to apply updates"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			status, body := request(t, app, tc.method, tc.path, tc.body)
			assert.Equal(t, fiber.StatusInternalServerError, status)
			assert.JSONEq(t, `{"error":"`+tc.want+`"}`, string(body))
			assert.NotContains(t, string(body), "input/output")
		})
	}
}

func TestStaticLandingPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Kanban</h1>"), 0644))

	mem := store.NewMemory()
	app := NewApp(NewServer(board.NewService(mem), zerolog.Nop()), dir)

	status, body := request(t, app, fiber.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "<h1>Kanban</h1>")
}

func TestRequestLogRecordsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := NewApp(NewServer(board.NewService(store.NewMemory()), zerolog.New(&buf)), "")
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	status, _ := request(t, app, fiber.MethodGet, "/teapot", nil)
	assert.Equal(t, fiber.StatusTeapot, status)
	assert.Contains(t, buf.String(), `"status":418`)

	buf.Reset()
	status, _ = request(t, app, fiber.MethodGet, "/no-such-route", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, buf.String(), `"status":404`)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := request(t, app, fiber.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
