package models

import (
	"strings"
	"time"

	"github.com/balkashynov/studio/internal/timefmt"
)

// Task represents a todo item owned by a user
type Task struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description"`
	Status      Status    `gorm:"not null" json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `gorm:"serializer:minute;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time `gorm:"serializer:minute;autoUpdateTime:false" json:"updated_at"`
	DueDate     time.Time `gorm:"serializer:minute" json:"due_date"`

	// Loaded by the repository through task_tags, never written by gorm.
	Tags []Tag `gorm:"-" json:"tags"`
}

func (Task) TableName() string { return "tasks" }

// TaskOptions holds the optional fields of a new task.
type TaskOptions struct {
	Description *string
	Priority    *Priority
	DueDate     *time.Time // defaults to the creation time
}

// NewTask validates and builds an unsaved task in the todo state.
func NewTask(userID uint, title string, opts TaskOptions) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, newError(EntityTask, KindInvalidName, "task title cannot be empty")
	}

	priority := DefaultPriority
	if opts.Priority != nil {
		if !opts.Priority.Valid() {
			return nil, newError(EntityTask, KindInvalidPriority, "%s", opts.Priority)
		}
		priority = *opts.Priority
	}

	now := timefmt.Now()
	due := now
	if opts.DueDate != nil {
		due = timefmt.Truncate(*opts.DueDate)
	}

	return &Task{
		UserID:      userID,
		Title:       title,
		Description: opts.Description,
		Status:      StatusTodo,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     due,
		Tags:        []Tag{},
	}, nil
}

// ParseDate parses a caller-supplied due date with timefmt.ParseInput and
// reports rejected input as an InvalidDate error.
func ParseDate(s string) (time.Time, error) {
	t, err := timefmt.ParseInput(s)
	if err != nil {
		return time.Time{}, InvalidDate(err)
	}
	return t, nil
}

// TagNames returns the names of the task's tags in order.
func (t *Task) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// TaskTag is the join table for the many-to-many relationship
type TaskTag struct {
	TaskID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

func (TaskTag) TableName() string { return "task_tags" }
