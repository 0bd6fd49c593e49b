package db

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/studio/internal/models"
)

// ReconcileTags makes the task's tag set equal desired, matching tags by name
// and creating the ones that do not exist yet. Only the difference between
// the current and desired sets is written, inside one transaction.
func (s *Store) ReconcileTags(taskID uint, desired []models.Tag) error {
	if err := checkTagNames(desired); err != nil {
		return err
	}
	return s.transaction(func(tx *gorm.DB) error {
		if err := requireTask(tx, taskID); err != nil {
			return err
		}
		resolved, err := s.resolveTagsByName(tx, desired)
		if err != nil {
			return err
		}
		_, _, err = s.applyTagIDs(tx, taskID, tagIDs(resolved))
		return err
	})
}

// SetTaskTags makes the task's tag set equal tags, which must all carry a
// store identity. It never creates tags.
func (s *Store) SetTaskTags(taskID uint, tags []models.Tag) error {
	if err := requireTagIDs(tags); err != nil {
		return err
	}
	return s.transaction(func(tx *gorm.DB) error {
		if err := requireTask(tx, taskID); err != nil {
			return err
		}
		if err := checkTagsExist(tx, tags); err != nil {
			return err
		}
		_, _, err := s.applyTagIDs(tx, taskID, tagIDs(tags))
		return err
	})
}

func checkTagNames(tags []models.Tag) error {
	for _, tag := range tags {
		if strings.TrimSpace(tag.Name) == "" {
			return &models.Error{Entity: models.EntityTag, Kind: models.KindInvalidName, Msg: "tag name cannot be empty"}
		}
	}
	return nil
}

func requireTagIDs(tags []models.Tag) error {
	for _, tag := range tags {
		if !tag.HasID() {
			return models.InvalidTag("tag '%s' has no id", tag.Name)
		}
	}
	return nil
}

func requireTask(tx *gorm.DB, taskID uint) error {
	var n int64
	if err := tx.Model(&models.Task{}).Where("id = ?", taskID).Count(&n).Error; err != nil {
		return wrapf(models.EntityTask, err, "find task #%d", taskID)
	}
	if n == 0 {
		return models.NotFound(models.EntityTask, taskID)
	}
	return nil
}

// checkTagsExist rejects ids that do not refer to a tag row.
func checkTagsExist(tx *gorm.DB, tags []models.Tag) error {
	ids := tagIDs(tags)
	if len(ids) == 0 {
		return nil
	}
	var found []uint
	if err := tx.Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return wrap(models.EntityTag, err, "check tags")
	}
	missing := difference(ids, found)
	if len(missing) > 0 {
		return models.InvalidTag("tag #%d does not exist", missing[0])
	}
	return nil
}

// resolveTagsByName maps each desired tag to a stored tag with the same
// name, creating missing ones. A new tag's color must be valid.
func (s *Store) resolveTagsByName(tx *gorm.DB, desired []models.Tag) ([]models.Tag, error) {
	resolved := make([]models.Tag, 0, len(desired))
	seen := make(map[string]bool, len(desired))
	for _, want := range desired {
		if seen[want.Name] {
			continue
		}
		seen[want.Name] = true

		existing, err := findTagByName(tx, want.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			resolved = append(resolved, *existing)
			continue
		}

		if err := want.Validate(); err != nil {
			return nil, err
		}
		created := models.Tag{Name: want.Name, Color: want.Color}
		if err := createTag(tx, &created); err != nil {
			return nil, err
		}
		s.log.Info(bg, "created tag #%d %q", created.ID, created.Name)
		resolved = append(resolved, created)
	}
	return resolved, nil
}

// applyTagIDs replaces the task's associations with desired by deleting the
// ones no longer wanted and inserting the missing ones.
func (s *Store) applyTagIDs(tx *gorm.DB, taskID uint, desired []uint) (added, removed []uint, err error) {
	var current []uint
	if err := tx.Model(&models.TaskTag{}).Where("task_id = ?", taskID).Pluck("tag_id", &current).Error; err != nil {
		return nil, nil, wrapf(models.EntityTask, err, "load tags of task #%d", taskID)
	}

	added, removed = diffTagIDs(current, desired)

	if len(removed) > 0 {
		err := tx.Where("task_id = ? AND tag_id IN ?", taskID, removed).Delete(&models.TaskTag{}).Error
		if err != nil {
			return nil, nil, wrapf(models.EntityTask, err, "detach tags from task #%d", taskID)
		}
	}
	if len(added) > 0 {
		links := make([]models.TaskTag, len(added))
		for i, id := range added {
			links[i] = models.TaskTag{TaskID: taskID, TagID: id}
		}
		if err := tx.Create(&links).Error; err != nil {
			return nil, nil, wrapf(models.EntityTask, err, "attach tags to task #%d", taskID)
		}
	}

	if len(added) > 0 || len(removed) > 0 {
		s.log.Info(bg, "task #%d tags: +%v -%v", taskID, added, removed)
	}
	return added, removed, nil
}

// diffTagIDs returns the ids to insert and to delete to turn current into
// desired. Both results are sorted and duplicate-free.
func diffTagIDs(current, desired []uint) (added, removed []uint) {
	return difference(desired, current), difference(current, desired)
}

// difference returns the distinct members of a not in b, sorted.
func difference(a, b []uint) []uint {
	exclude := make(map[uint]bool, len(b))
	for _, id := range b {
		exclude[id] = true
	}
	var out []uint
	for _, id := range a {
		if !exclude[id] {
			out = append(out, id)
			exclude[id] = true
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
