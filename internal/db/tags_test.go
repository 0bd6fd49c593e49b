package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studio/internal/models"
)

func TestCreateTag(t *testing.T) {
	s := openTestStore(t, nil)

	tag := models.Tag{Name: "home", Color: "  #ABC "}
	require.NoError(t, s.CreateTag(&tag))
	assert.NotZero(t, tag.ID)

	got, err := s.TagByID(tag.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "home", got.Name)
	assert.Equal(t, "#ABC", got.Color)

	bad := models.Tag{Name: "bad", Color: "#12"}
	err = s.CreateTag(&bad)
	assert.ErrorIs(t, err, models.ErrInvalidColor)
	assert.Zero(t, bad.ID)
}

func TestTagLookupsMissing(t *testing.T) {
	s := openTestStore(t, nil)

	byID, err := s.TagByID(12)
	require.NoError(t, err)
	assert.Nil(t, byID)

	byName, err := s.TagByName("nope")
	require.NoError(t, err)
	assert.Nil(t, byName)
}

func TestTagByNamePicksOldest(t *testing.T) {
	s := openTestStore(t, nil)

	first := mustTag(t, "dup", "red")
	second := mustTag(t, "dup", "blue")
	require.NoError(t, s.CreateTag(&first))
	require.NoError(t, s.CreateTag(&second))

	got, err := s.TagByName("dup")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestRenameTag(t *testing.T) {
	s := openTestStore(t, nil)

	tag := mustTag(t, "old", "red")
	require.NoError(t, s.CreateTag(&tag))
	require.NoError(t, s.RenameTag(tag.ID, "new"))

	got, err := s.TagByID(tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	assert.ErrorIs(t, s.RenameTag(tag.ID, ""), models.ErrInvalidName)
	assert.ErrorIs(t, s.RenameTag(tag.ID+1, "x"), models.ErrNotFound)
}

func TestDeleteTag(t *testing.T) {
	s := openTestStore(t, nil)

	free := mustTag(t, "free", "red")
	require.NoError(t, s.CreateTag(&free))

	deleted, err := s.DeleteTag(free.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteTag(free.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteTagBlockedWhileAttached(t *testing.T) {
	s := openTestStore(t, nil)
	userID := seedUser(t, s)

	task := newTask(t, userID, "Holder", noon)
	task.Tags = []models.Tag{mustTag(t, "busy", "red")}
	id := insert(t, s, task)
	tagID := task.Tags[0].ID

	_, err := s.DeleteTag(tagID)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDatabase)

	_, err = s.DeleteTask(id)
	require.NoError(t, err)

	deleted, err := s.DeleteTag(tagID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
