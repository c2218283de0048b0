// server/domain/task.go
package domain

import (
	"encoding/json"
	"time"
)

// DefaultStatus is the workflow state given to tasks created without one.
const DefaultStatus = "To Do"

const (
	FieldID            = "id"
	FieldCurrentStatus = "currentStatus"
	FieldUpdatedAt     = "updatedAt"
)

type Subtask struct {
	Text      string `json:"text"`
	Tokens    string `json:"tokens"`
	Completed bool   `json:"completed"`
}

// TaskFields are the fields the board page knows how to show. It is only a
// convenient way to build or read a Task.
type TaskFields struct {
	ID            string    `json:"id,omitempty"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status,omitempty"`
	Category      string    `json:"category,omitempty"`
	Assignee      string    `json:"assignee,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	Tokens        string    `json:"tokens,omitempty"`
	CurrentStatus string    `json:"currentStatus,omitempty"`
	DetailedDesc  string    `json:"detailedDesc,omitempty"`
	Subtasks      []Subtask `json:"subtasks,omitempty"`
	UpdatedAt     string    `json:"updatedAt,omitempty"`
}

// Task converts f into a stored record holding only the non-empty fields.
func (f TaskFields) Task() Task {
	data, err := json.Marshal(f)
	if err != nil {
		panic(err)
	}
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		panic(err)
	}
	return t
}

// Task is one card on the board, kept as the raw JSON fields the caller
// sent. The server only ever writes currentStatus and updatedAt; every other
// field, known or not, is stored exactly as received.
type Task map[string]json.RawMessage

// String returns the field as a string, or "" when it is missing or not a
// JSON string.
func (t Task) String(key string) string {
	raw, ok := t[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (t Task) SetString(key, value string) {
	raw, _ := json.Marshal(value)
	t[key] = raw
}

// ID returns the id the caller put in the record: a JSON string as is, a
// JSON number as its literal text.
func (t Task) ID() string {
	raw, ok := t[FieldID]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func (t Task) CurrentStatus() string { return t.String(FieldCurrentStatus) }

func (t Task) UpdatedAt() string { return t.String(FieldUpdatedAt) }

// Fields decodes the known fields. It fails when one of them holds a
// non-string value, e.g. a numeric priority.
func (t Task) Fields() (TaskFields, error) {
	var f TaskFields
	data, err := json.Marshal(t)
	if err != nil {
		return f, err
	}
	err = json.Unmarshal(data, &f)
	return f, err
}

func (t Task) Clone() Task {
	if t == nil {
		return nil
	}
	out := make(Task, len(t))
	for k, v := range t {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// TaskMap is the whole tasks document, keyed by task id.
type TaskMap map[string]Task

// Clone returns a copy that shares no memory with m.
func (m TaskMap) Clone() TaskMap {
	out := make(TaskMap, len(m))
	for id, t := range m {
		out[id] = t.Clone()
	}
	return out
}

// Timestamp renders t the way updatedAt and journal timestamps are stored:
// UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
