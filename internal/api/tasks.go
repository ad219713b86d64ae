package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// Category is the closed set of task categories the backend knows about.
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryUrgent   Category = "Urgent"
	CategoryShopping Category = "Shopping"
	CategoryHealth   Category = "Health"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPersonal,
	CategoryWork,
	CategoryUrgent,
	CategoryShopping,
	CategoryHealth,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Task is the server's canonical task record. Every field is taken
// verbatim from responses; the client never computes id, is_completed
// or the timestamps itself.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	Category    Category   `json:"category"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskFields is the mutable portion of a task sent on create and update.
type TaskFields struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate applies the client-side length checks. A failing field means
// the request is never issued.
func (f TaskFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Msg: "task title cannot be empty"}
	}
	if utf8.RuneCountInString(f.Title) > maxTitleLen {
		return &ValidationError{Msg: fmt.Sprintf("task title too long, max %d characters", maxTitleLen)}
	}
	if utf8.RuneCountInString(f.Description) > maxDescriptionLen {
		return &ValidationError{Msg: fmt.Sprintf("task description too long, max %d characters", maxDescriptionLen)}
	}
	if f.Category != "" && !f.Category.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("unknown category %q", f.Category)}
	}
	return nil
}

// TaskClient calls the task CRUD endpoints.
type TaskClient struct {
	baseURL string
	userID  string
	http    *http.Client
}

func NewTaskClient(baseURL, userID string) *TaskClient {
	return &TaskClient{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetTimeout overrides the default per-request timeout.
func (c *TaskClient) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// List fetches every task belonging to the user.
func (c *TaskClient) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := send(ctx, c.http, http.MethodGet, joinURL(c.baseURL, "/tasks"), c.userID, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create posts a new task and returns the canonical record the server
// assigned (id, timestamps, defaulted category).
func (c *TaskClient) Create(ctx context.Context, fields TaskFields) (*Task, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if fields.Category == "" {
		fields.Category = CategoryPersonal
	}
	var task Task
	if err := send(ctx, c.http, http.MethodPost, joinURL(c.baseURL, "/tasks"), c.userID, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update replaces the mutable fields of an existing task.
func (c *TaskClient) Update(ctx context.Context, id string, fields TaskFields) (*Task, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	var task Task
	if err := send(ctx, c.http, http.MethodPut, c.taskURL(id), c.userID, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleComplete flips is_completed on the server side and returns the
// updated record. The client never computes the new value itself.
func (c *TaskClient) ToggleComplete(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := send(ctx, c.http, http.MethodPatch, c.taskURL(id)+"/complete", c.userID, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task. Callers drop the local copy only after this
// returns nil.
func (c *TaskClient) Delete(ctx context.Context, id string) error {
	return send(ctx, c.http, http.MethodDelete, c.taskURL(id), c.userID, nil, nil)
}

func (c *TaskClient) taskURL(id string) string {
	return joinURL(c.baseURL, "/tasks/"+url.PathEscape(id))
}
