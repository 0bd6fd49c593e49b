package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/studio/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var noon = time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T, clock *fakeClock) *Store {
	t.Helper()
	return openStoreAt(t, filepath.Join(t.TempDir(), "studio.db"), clock)
}

func openStoreAt(t *testing.T, path string, clock *fakeClock) *Store {
	t.Helper()
	if clock == nil {
		clock = &fakeClock{t: noon}
	}
	s, err := Open(Options{Path: path, Clock: clock.Now})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store) uint {
	t.Helper()
	u, err := models.NewUser("Alice")
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(u))
	return u.ID
}

func newTask(t *testing.T, userID uint, title string, due time.Time) *models.Task {
	t.Helper()
	task, err := models.NewTask(userID, title, models.TaskOptions{DueDate: &due})
	require.NoError(t, err)
	task.CreatedAt = noon.Add(-time.Hour)
	task.UpdatedAt = noon.Add(-time.Hour)
	return task
}

func insert(t *testing.T, s *Store, task *models.Task) uint {
	t.Helper()
	id, err := s.InsertTask(task)
	require.NoError(t, err)
	return id
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func mustTag(t *testing.T, name, color string) models.Tag {
	t.Helper()
	tag, err := models.NewTag(name, color)
	require.NoError(t, err)
	return *tag
}

func count(t *testing.T, s *Store, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Raw(query, args...).Scan(&n).Error)
	return n
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}

func TestOpenIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "studio.db")
	s := openStoreAt(t, path, nil)
	userID := seedUser(t, s)
	insert(t, s, newTask(t, userID, "persisted", noon))
	require.NoError(t, s.Close())

	again := openStoreAt(t, path, nil)
	tasks, err := again.AllTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persisted", tasks[0].Title)
	assert.Equal(t, schemaInfo{titleColumn: "title", hasPriority: true}, again.schema)
}

func TestInsertAndReadBack(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	due := time.Date(2024, 5, 10, 9, 30, 45, 0, time.UTC)
	first := newTask(t, userID, "Write report", due)
	id1 := insert(t, s, first)
	id2 := insert(t, s, newTask(t, userID, "Second", due))

	assert.NotZero(t, id1)
	assert.NotEqual(t, id1, id2)
	assert.Greater(t, id2, id1)
	assert.Equal(t, id1, first.ID)

	got, err := s.TaskByID(id1)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, models.StatusTodo, got.Status)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.Nil(t, got.Description)
	assert.Empty(t, got.Tags)
	assert.NotNil(t, got.Tags)
	assert.Equal(t, time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC), got.DueDate)
	assert.Equal(t, noon.Add(-time.Hour), got.CreatedAt)

	var stored string
	require.NoError(t, s.db.Raw("SELECT due_date FROM tasks WHERE id = ?", id1).Scan(&stored).Error)
	assert.Equal(t, "2024-05-10T09:30", stored)
}

func TestInsertStoresCanonicalEnums(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	high := models.PriorityHigh
	desc := "details"
	task, err := models.NewTask(userID, "Enum", models.TaskOptions{Priority: &high, Description: &desc})
	require.NoError(t, err)
	task.Status = models.StatusInProgress
	id := insert(t, s, task)

	var row struct {
		Status      string
		Priority    string
		Description string
	}
	require.NoError(t, s.db.Raw("SELECT status, priority, description FROM tasks WHERE id = ?", id).Scan(&row).Error)
	assert.Equal(t, "in_progress", row.Status)
	assert.Equal(t, "high", row.Priority)
	assert.Equal(t, "details", row.Description)
}

func TestInsertTaskWithTags(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	existing := mustTag(t, "work", "blue")
	require.NoError(t, s.CreateTag(&existing))

	task := newTask(t, userID, "Tagged", noon)
	task.Tags = []models.Tag{mustTag(t, "work", "red"), mustTag(t, "urgent", "#F00"), mustTag(t, "work", "red")}
	id := insert(t, s, task)

	assert.Equal(t, []string{"work", "urgent"}, tagNames(task.Tags))
	assert.Equal(t, existing.ID, task.Tags[0].ID)
	assert.Equal(t, "blue", task.Tags[0].Color)

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "urgent"}, tagNames(got.Tags))
	assert.Equal(t, int64(2), count(t, s, "SELECT COUNT(*) FROM tags"))
}

func TestInsertTaskRejectsInvalidInput(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	_, err := s.InsertTask(&models.Task{UserID: userID, Title: " ", Status: models.StatusTodo, Priority: models.PriorityLow})
	assert.ErrorIs(t, err, models.ErrInvalidName)

	task := newTask(t, userID, "Bad tag", noon)
	task.Tags = []models.Tag{{Name: "fresh", Color: "notacolor"}}
	_, err = s.InsertTask(task)
	assert.ErrorIs(t, err, models.ErrInvalidColor)
	assert.Zero(t, task.ID)

	assert.Equal(t, int64(0), count(t, s, "SELECT COUNT(*) FROM tasks"))
	assert.Equal(t, int64(0), count(t, s, "SELECT COUNT(*) FROM tags"))
}

func TestInsertTaskRejectsInvalidEnums(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	task := newTask(t, userID, "No status", noon)
	task.Status = models.Status(0)
	_, err := s.InsertTask(task)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	assert.True(t, models.IsValidation(err))

	task = newTask(t, userID, "No priority", noon)
	task.Priority = models.Priority(9)
	_, err = s.InsertTask(task)
	assert.ErrorIs(t, err, models.ErrInvalidPriority)
	assert.True(t, models.IsValidation(err))

	assert.Equal(t, int64(0), count(t, s, "SELECT COUNT(*) FROM tasks"))
}

func TestInsertTaskUnknownUser(t *testing.T) {
	s := openTestStore(t, nil)

	_, err := s.InsertTask(newTask(t, 42, "Orphan", noon))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDatabase)
	assert.False(t, models.IsValidation(err))
}

func TestTaskByIDNotFound(t *testing.T) {
	s := openTestStore(t, nil)

	_, err := s.TaskByID(99)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDatabase)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAllTasksOrderedWithTags(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	a := newTask(t, userID, "A", noon)
	a.Tags = []models.Tag{mustTag(t, "x", "red")}
	insert(t, s, a)
	insert(t, s, newTask(t, userID, "B", noon))

	tasks, err := s.AllTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].Title)
	assert.Equal(t, []string{"x"}, tagNames(tasks[0].Tags))
	assert.Equal(t, "B", tasks[1].Title)
	assert.Empty(t, tasks[1].Tags)
}

func TestTasksDueToday(t *testing.T) {
	s := openTestStore(t, &fakeClock{t: noon})
	userID := seedUser(t, s)

	day := func(d, h, m int) time.Time { return time.Date(2024, 5, d, h, m, 0, 0, time.UTC) }
	insert(t, s, newTask(t, userID, "yesterday", day(5, 23, 59)))
	insert(t, s, newTask(t, userID, "start", day(6, 0, 0)))
	insert(t, s, newTask(t, userID, "end", day(6, 23, 59)))
	insert(t, s, newTask(t, userID, "tomorrow", day(7, 0, 0)))

	tasks, err := s.TasksDueToday()
	require.NoError(t, err)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"start", "end"}, titles)
}

func TestTasksByStatus(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	id := insert(t, s, newTask(t, userID, "one", noon))
	insert(t, s, newTask(t, userID, "two", noon))
	done := models.StatusDone
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Status: &done}))

	tasks, err := s.TasksByStatus(models.StatusDone)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "one", tasks[0].Title)

	_, err = s.TasksByStatus(models.Status(0))
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestTasksByStatusIncludesLegacyNames(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	oldID := insert(t, s, newTask(t, userID, "old paused", noon))
	newID := insert(t, s, newTask(t, userID, "new paused", noon))
	insert(t, s, newTask(t, userID, "still todo", noon))
	require.NoError(t, s.db.Exec("UPDATE tasks SET status = 'backlog' WHERE id = ?", oldID).Error)
	paused := models.StatusPaused
	require.NoError(t, s.UpdateTask(newID, TaskUpdate{Status: &paused}))

	tasks, err := s.TasksByStatus(models.StatusPaused)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, []uint{oldID, newID}, []uint{tasks[0].ID, tasks[1].ID})
	assert.Equal(t, models.StatusPaused, tasks[0].Status)
}

func TestUpdateWithoutFieldsFails(t *testing.T) {
	clock := &fakeClock{t: noon}
	s := openTestStore(t, clock)
	userID := seedUser(t, s)
	id := insert(t, s, newTask(t, userID, "Untouched", noon))

	clock.Advance(10 * time.Minute)
	err := s.UpdateTask(id, TaskUpdate{})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.True(t, models.IsValidation(err))

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Equal(t, noon.Add(-time.Hour), got.UpdatedAt)
}

func TestUpdateStatusOnly(t *testing.T) {
	clock := &fakeClock{t: noon}
	s := openTestStore(t, clock)
	userID := seedUser(t, s)

	due := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	id := insert(t, s, newTask(t, userID, "Keep me", due))

	clock.Advance(5*time.Minute + 30*time.Second)
	inProgress := models.StatusInProgress
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Status: &inProgress}))

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, "Keep me", got.Title)
	assert.Equal(t, due, got.DueDate)
	assert.Equal(t, noon.Add(5*time.Minute), got.UpdatedAt)
	assert.Equal(t, noon.Add(-time.Hour), got.CreatedAt)
}

func TestUpdateAllFields(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)
	id := insert(t, s, newTask(t, userID, "Old", noon))

	title := "New"
	desc := "described"
	high := models.PriorityHigh
	due := time.Date(2024, 7, 1, 10, 15, 59, 0, time.UTC)
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Title: &title, Description: &desc, Priority: &high, DueDate: &due}))

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "described", *got.Description)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, time.Date(2024, 7, 1, 10, 15, 0, 0, time.UTC), got.DueDate)
}

func TestUpdateClearsBlankDescription(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)
	desc := "notes"
	task, err := models.NewTask(userID, "Described", models.TaskOptions{Description: &desc})
	require.NoError(t, err)
	id := insert(t, s, task)

	empty := ""
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Description: &empty}))

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Equal(t, int64(1), count(t, s, "SELECT COUNT(*) FROM tasks WHERE description IS NULL"))
}

func TestUpdateValidation(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)
	id := insert(t, s, newTask(t, userID, "Stable", noon))

	blank := "  "
	assert.ErrorIs(t, s.UpdateTask(id, TaskUpdate{Title: &blank}), models.ErrInvalidName)

	bad := models.Status(42)
	assert.ErrorIs(t, s.UpdateTask(id, TaskUpdate{Status: &bad}), models.ErrInvalidStatus)

	unsaved := []models.Tag{mustTag(t, "new", "red")}
	err := s.UpdateTask(id, TaskUpdate{Tags: &unsaved})
	assert.ErrorIs(t, err, models.ErrInvalidTag)
	assert.Equal(t, int64(0), count(t, s, "SELECT COUNT(*) FROM tags"))
}

func TestUpdateMissingTask(t *testing.T) {
	s := openTestStore(t, nil)

	title := "ghost"
	err := s.UpdateTask(404, TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateTagsByID(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	a, b, c := mustTag(t, "A", "red"), mustTag(t, "B", "green"), mustTag(t, "C", "blue")
	for _, tag := range []*models.Tag{&a, &b, &c} {
		require.NoError(t, s.CreateTag(tag))
	}

	task := newTask(t, userID, "Tags", noon)
	task.Tags = []models.Tag{a, b}
	id := insert(t, s, task)

	want := []models.Tag{b, c}
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Tags: &want}))

	got, err := s.TaskTags(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, tagNames(got))

	none := []models.Tag{}
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Tags: &none}))
	got, err = s.TaskTags(id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateRollsBackWhenTagsFail(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)
	id := insert(t, s, newTask(t, userID, "Before", noon))

	title := "After"
	ghost := []models.Tag{{ID: 777, Name: "ghost", Color: "red"}}
	err := s.UpdateTask(id, TaskUpdate{Title: &title, Tags: &ghost})
	assert.ErrorIs(t, err, models.ErrInvalidTag)

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Before", got.Title)
	assert.Equal(t, noon.Add(-time.Hour), got.UpdatedAt)
}

func TestDeleteTaskCascades(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	task := newTask(t, userID, "Doomed", noon)
	task.Tags = []models.Tag{mustTag(t, "A", "red"), mustTag(t, "B", "red")}
	id := insert(t, s, task)
	require.Equal(t, int64(2), count(t, s, "SELECT COUNT(*) FROM task_tags WHERE task_id = ?", id))

	deleted, err := s.DeleteTask(id)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, int64(0), count(t, s, "SELECT COUNT(*) FROM task_tags"))
	assert.Equal(t, int64(2), count(t, s, "SELECT COUNT(*) FROM tags"))

	deleted, err = s.DeleteTask(id)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.TaskByID(id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIdentitiesAreNotReused(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	id1 := insert(t, s, newTask(t, userID, "one", noon))
	_, err := s.DeleteTask(id1)
	require.NoError(t, err)
	id2 := insert(t, s, newTask(t, userID, "two", noon))
	assert.Greater(t, id2, id1)
}

func TestCorruptStoredStatusFailsRead(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)
	id := insert(t, s, newTask(t, userID, "Broken", noon))

	require.NoError(t, s.db.Exec("UPDATE tasks SET status = 'blocked' WHERE id = ?", id).Error)

	_, err := s.AllTasks()
	require.Error(t, err)
	assert.Equal(t, models.KindDatabase, models.KindOf(err))
	assert.Contains(t, err.Error(), "blocked")
}

func TestCorruptStoredDateFailsRead(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)
	id := insert(t, s, newTask(t, userID, "Broken", noon))

	require.NoError(t, s.db.Exec("UPDATE tasks SET due_date = 'tomorrow' WHERE id = ?", id).Error)

	_, err := s.TaskByID(id)
	require.Error(t, err)
	assert.Equal(t, models.KindDatabase, models.KindOf(err))
}

func TestPanicPoisonsStore(t *testing.T) {
	s := openTestStore(t, nil)

	assert.Panics(t, func() {
		_ = s.run(func(tx *gorm.DB) error { panic("boom") })
	})

	_, err := s.AllTasks()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLockFailed)
}

func TestClosedStoreFailsWithLockFailed(t *testing.T) {
	s := openTestStore(t, nil)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.AllTags()
	assert.ErrorIs(t, err, models.ErrLockFailed)
}

func TestLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, status TEXT NOT NULL, created_at TEXT NOT NULL)`,
		`CREATE TABLE tasks (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL, name TEXT NOT NULL, description TEXT,
			status TEXT NOT NULL, created_at TEXT NOT NULL, updated_at TEXT NOT NULL, due_date TEXT NOT NULL)`,
		`INSERT INTO users (name, status, created_at) VALUES ('Old', 'active', '2023-01-01T08:00')`,
		`INSERT INTO tasks (user_id, name, status, created_at, updated_at, due_date)
			VALUES (1, 'From v1', 'backlog', '2023-01-01T08:00', '2023-01-01T08:00', '2023-01-02T09:00')`,
	} {
		require.NoError(t, raw.Exec(stmt).Error)
	}
	sqlDB, err := raw.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	s := openStoreAt(t, path, nil)
	assert.Equal(t, schemaInfo{titleColumn: "name", hasPriority: false}, s.schema)

	tasks, err := s.AllTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "From v1", tasks[0].Title)
	assert.Equal(t, models.StatusPaused, tasks[0].Status)
	assert.Equal(t, models.PriorityMedium, tasks[0].Priority)

	paused, err := s.TasksByStatus(models.StatusPaused)
	require.NoError(t, err)
	require.Len(t, paused, 1)
	assert.Equal(t, "From v1", paused[0].Title)

	id := insert(t, s, newTask(t, 1, "From v2", noon))
	high := models.PriorityHigh
	title := "Renamed"
	require.NoError(t, s.UpdateTask(id, TaskUpdate{Title: &title, Priority: &high}))

	got, err := s.TaskByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, models.PriorityMedium, got.Priority)
}
