package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studio/internal/models"
)

func TestUsers(t *testing.T) {
	s := openTestStore(t, nil)

	id, ok, err := s.FirstActiveUserID()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)

	alice := &models.User{Name: "Alice", Status: models.UserInactive, CreatedAt: noon.Add(30 * time.Second)}
	bob := &models.User{Name: "Bob", Status: models.UserActive, CreatedAt: noon}
	carol := &models.User{Name: "Carol", Status: models.UserActive, CreatedAt: noon}
	for _, u := range []*models.User{alice, bob, carol} {
		require.NoError(t, s.CreateUser(u))
	}

	n, err := s.CountActiveUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	id, ok, err = s.FirstActiveUserID()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, bob.ID, id)

	got, err := s.UserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, models.UserInactive, got.Status)
	assert.Equal(t, noon, got.CreatedAt)

	users, err := s.AllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = s.UserByID(99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateUserRejectsBlankName(t *testing.T) {
	s := openTestStore(t, nil)

	err := s.CreateUser(&models.User{Name: "\t", Status: models.UserActive})
	assert.ErrorIs(t, err, models.ErrInvalidName)

	users, err := s.AllUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}
