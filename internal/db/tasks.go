package db

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/timefmt"
)

// TaskUpdate holds the fields of a partial update. Nil fields are left alone.
// Tags, when non-nil, replaces the task's tag set; every tag must already
// have an ID.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	DueDate     *time.Time
	Tags        *[]models.Tag
}

// Empty reports whether no field was supplied.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.DueDate == nil && u.Tags == nil
}

func (u TaskUpdate) validate() error {
	if u.Empty() {
		return models.Validation(models.EntityTask, "no fields to update")
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidName, Msg: "task title cannot be empty"}
	}
	if u.Status != nil && !u.Status.Valid() {
		return &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidStatus, Msg: u.Status.String()}
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidPriority, Msg: u.Priority.String()}
	}
	if u.Tags != nil {
		return requireTagIDs(*u.Tags)
	}
	return nil
}

// taskColumns is the SELECT list for tasks, aliased to the current names.
func (s *Store) taskColumns() string {
	cols := []string{"id", "user_id"}
	if s.schema.titleColumn == "title" {
		cols = append(cols, "title")
	} else {
		cols = append(cols, s.schema.titleColumn+" AS title")
	}
	cols = append(cols, "description", "status")
	if s.schema.hasPriority {
		cols = append(cols, "priority")
	} else {
		cols = append(cols, "'"+models.DefaultPriority.String()+"' AS priority")
	}
	cols = append(cols, "created_at", "updated_at", "due_date")
	return strings.Join(cols, ", ")
}

// InsertTask saves a new task, assigning task.ID. Timestamps are truncated to
// the minute. Tags on the task are resolved by name, created when missing,
// and attached in the same transaction.
func (s *Store) InsertTask(task *models.Task) (uint, error) {
	if strings.TrimSpace(task.Title) == "" {
		return 0, &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidName, Msg: "task title cannot be empty"}
	}
	if !task.Status.Valid() {
		return 0, &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidStatus, Msg: task.Status.String()}
	}
	if !task.Priority.Valid() {
		return 0, &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidPriority, Msg: task.Priority.String()}
	}
	if err := checkTagNames(task.Tags); err != nil {
		return 0, err
	}

	task.CreatedAt = timefmt.Truncate(task.CreatedAt)
	task.UpdatedAt = timefmt.Truncate(task.UpdatedAt)
	task.DueDate = timefmt.Truncate(task.DueDate)

	var cols columnSet
	cols.set(s.schema.titleColumn, task.Title)
	cols.set("user_id", task.UserID)
	cols.set("description", nullable(task.Description))
	cols.set("status", task.Status)
	if s.schema.hasPriority {
		cols.set("priority", task.Priority)
	}
	cols.set("created_at", timefmt.Format(task.CreatedAt))
	cols.set("updated_at", timefmt.Format(task.UpdatedAt))
	cols.set("due_date", timefmt.Format(task.DueDate))

	var id uint
	var tags []models.Tag
	err := s.transaction(func(tx *gorm.DB) error {
		query, args := cols.insertSQL("tasks")
		if err := tx.Raw(query, args...).Row().Scan(&id); err != nil {
			return wrap(models.EntityTask, err, "insert task")
		}
		if len(task.Tags) == 0 {
			return nil
		}

		resolved, err := s.resolveTagsByName(tx, task.Tags)
		if err != nil {
			return err
		}
		if _, _, err := s.applyTagIDs(tx, id, tagIDs(resolved)); err != nil {
			return err
		}
		tags, err = loadTaskTags(tx, id)
		return err
	})
	if err != nil {
		return 0, err
	}

	task.ID = id
	if tags == nil {
		tags = []models.Tag{}
	}
	task.Tags = tags
	return id, nil
}

// AllTasks retrieves every task with its tags, ordered by id.
func (s *Store) AllTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.run(func(tx *gorm.DB) error {
		var err error
		tasks, err = s.findTasks(tx.Order("id"))
		return err
	})
	return tasks, err
}

// TaskByID retrieves a task with its tags. A missing task is a database
// error wrapping models.ErrNotFound.
func (s *Store) TaskByID(id uint) (*models.Task, error) {
	var task *models.Task
	err := s.run(func(tx *gorm.DB) error {
		var err error
		task, err = s.findTask(tx, id)
		return err
	})
	return task, err
}

// TasksDueToday returns the tasks due between the first and last minute of
// the current day, inclusive.
func (s *Store) TasksDueToday() ([]models.Task, error) {
	start, end := timefmt.DayBounds(s.now())
	return s.TasksDueBetween(start, end)
}

// TasksDueBetween returns tasks whose due date lies in [start, end].
func (s *Store) TasksDueBetween(start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.run(func(tx *gorm.DB) error {
		var err error
		q := tx.Where("due_date >= ? AND due_date <= ?",
			timefmt.Format(timefmt.Truncate(start)), timefmt.Format(timefmt.Truncate(end)))
		tasks, err = s.findTasks(q.Order("due_date, id"))
		return err
	})
	return tasks, err
}

// TasksByStatus returns the tasks in the given status, ordered by id. Rows
// still holding a legacy name for the status are included.
func (s *Store) TasksByStatus(status models.Status) ([]models.Task, error) {
	if !status.Valid() {
		return nil, &models.Error{Entity: models.EntityTask, Kind: models.KindInvalidStatus, Msg: status.String()}
	}
	var tasks []models.Task
	err := s.run(func(tx *gorm.DB) error {
		var err error
		tasks, err = s.findTasks(tx.Where("LOWER(status) IN ?", status.StoredNames()).Order("id"))
		return err
	})
	return tasks, err
}

// UpdateTask applies the supplied fields and always refreshes updated_at.
// The column update and the tag replacement run in one transaction.
func (s *Store) UpdateTask(id uint, u TaskUpdate) error {
	if err := u.validate(); err != nil {
		return err
	}

	var cols columnSet
	if u.Title != nil {
		cols.set(s.schema.titleColumn, *u.Title)
	}
	if u.Description != nil {
		cols.set("description", nullable(u.Description))
	}
	if u.Status != nil {
		cols.set("status", *u.Status)
	}
	if u.Priority != nil {
		if s.schema.hasPriority {
			cols.set("priority", *u.Priority)
		} else {
			s.log.Warn(bg, "task #%d: tasks table has no priority column, dropping priority %s", id, *u.Priority)
		}
	}
	if u.DueDate != nil {
		cols.set("due_date", timefmt.Format(timefmt.Truncate(*u.DueDate)))
	}

	cols.set("updated_at", timefmt.Format(s.now()))

	return s.transaction(func(tx *gorm.DB) error {
		query, args := cols.updateSQL("tasks", id)
		res := tx.Exec(query, args...)
		if res.Error != nil {
			return wrapf(models.EntityTask, res.Error, "update task #%d", id)
		}
		if res.RowsAffected == 0 {
			return models.NotFound(models.EntityTask, id)
		}

		if u.Tags == nil {
			return nil
		}
		if err := checkTagsExist(tx, *u.Tags); err != nil {
			return err
		}
		_, _, err := s.applyTagIDs(tx, id, tagIDs(*u.Tags))
		return err
	})
}

// DeleteTask removes a task. Its tag associations go with it through the
// task_tags cascade. It reports whether a row was deleted.
func (s *Store) DeleteTask(id uint) (bool, error) {
	var deleted bool
	err := s.run(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return wrapf(models.EntityTask, res.Error, "delete task #%d", id)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// findTask loads one task with its tags inside an existing critical section.
func (s *Store) findTask(tx *gorm.DB, id uint) (*models.Task, error) {
	tasks, err := s.findTasks(tx.Where("id = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, models.NotFound(models.EntityTask, id)
	}
	return &tasks[0], nil
}

// findTasks runs q against tasks and attaches every task's tags with one
// join query.
func (s *Store) findTasks(q *gorm.DB) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := q.Select(s.taskColumns()).Find(&tasks).Error; err != nil {
		return nil, wrap(models.EntityTask, err, "load tasks")
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]uint, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	byTask, err := loadTagsFor(q.Session(&gorm.Session{NewDB: true}), ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tags := byTask[tasks[i].ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		tasks[i].Tags = tags
	}
	return tasks, nil
}
