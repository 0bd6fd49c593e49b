package db

import (
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/studio/internal/models"
)

// CreateTag validates and saves a new tag, assigning tag.ID.
func (s *Store) CreateTag(tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	return s.run(func(tx *gorm.DB) error {
		return createTag(tx, tag)
	})
}

func createTag(tx *gorm.DB, tag *models.Tag) error {
	tag.ID = 0
	tag.Color = strings.TrimSpace(tag.Color)
	return wrapf(models.EntityTag, tx.Create(tag).Error, "create tag %q", tag.Name)
}

// TagByID returns the tag, or nil when it does not exist.
func (s *Store) TagByID(id uint) (*models.Tag, error) {
	var tags []models.Tag
	err := s.run(func(tx *gorm.DB) error {
		return wrapf(models.EntityTag, tx.Where("id = ?", id).Limit(1).Find(&tags).Error, "find tag #%d", id)
	})
	if err != nil || len(tags) == 0 {
		return nil, err
	}
	return &tags[0], nil
}

// TagByName returns the oldest tag with exactly this name, or nil.
func (s *Store) TagByName(name string) (*models.Tag, error) {
	var tag *models.Tag
	err := s.run(func(tx *gorm.DB) error {
		var err error
		tag, err = findTagByName(tx, name)
		return err
	})
	return tag, err
}

func findTagByName(tx *gorm.DB, name string) (*models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("tag_name = ?", name).Order("id").Limit(1).Find(&tags).Error; err != nil {
		return nil, wrapf(models.EntityTag, err, "find tag %q", name)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return &tags[0], nil
}

// AllTags returns every tag ordered by id.
func (s *Store) AllTags() ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.run(func(tx *gorm.DB) error {
		return wrap(models.EntityTag, tx.Order("id").Find(&tags).Error, "list tags")
	})
	return tags, err
}

// RenameTag changes a tag's name.
func (s *Store) RenameTag(id uint, name string) error {
	if strings.TrimSpace(name) == "" {
		return &models.Error{Entity: models.EntityTag, Kind: models.KindInvalidName, Msg: "tag name cannot be empty"}
	}
	return s.run(func(tx *gorm.DB) error {
		res := tx.Model(&models.Tag{}).Where("id = ?", id).Update("tag_name", name)
		if res.Error != nil {
			return wrapf(models.EntityTag, res.Error, "rename tag #%d", id)
		}
		if res.RowsAffected == 0 {
			return models.NotFound(models.EntityTag, id)
		}
		return nil
	})
}

// DeleteTag removes a tag and reports whether it existed. Associations are
// not cascaded: deleting a tag still attached to a task fails.
func (s *Store) DeleteTag(id uint) (bool, error) {
	var deleted bool
	err := s.run(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return wrapf(models.EntityTag, res.Error, "delete tag #%d", id)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// TaskTags returns the tags attached to a task, ordered by tag id.
func (s *Store) TaskTags(taskID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.run(func(tx *gorm.DB) error {
		var err error
		tags, err = loadTaskTags(tx, taskID)
		return err
	})
	return tags, err
}

// taskTagRow is one row of the tags/task_tags join.
type taskTagRow struct {
	TaskID   uint
	ID       uint
	TagName  string
	TagColor string
}

func loadTaskTags(tx *gorm.DB, taskID uint) ([]models.Tag, error) {
	byTask, err := loadTagsFor(tx, []uint{taskID})
	if err != nil {
		return nil, err
	}
	tags := byTask[taskID]
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// loadTagsFor fetches the tags of several tasks with one join query.
func loadTagsFor(tx *gorm.DB, taskIDs []uint) (map[uint][]models.Tag, error) {
	var rows []taskTagRow
	err := tx.Table("tags AS t").
		Select("tt.task_id, t.id, t.tag_name, t.tag_color").
		Joins("JOIN task_tags tt ON t.id = tt.tag_id").
		Where("tt.task_id IN ?", taskIDs).
		Order("tt.task_id, t.id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(models.EntityTag, err, "load task tags")
	}

	byTask := make(map[uint][]models.Tag, len(taskIDs))
	for _, r := range rows {
		byTask[r.TaskID] = append(byTask[r.TaskID], models.Tag{ID: r.ID, Name: r.TagName, Color: r.TagColor})
	}
	return byTask, nil
}
