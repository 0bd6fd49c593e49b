package db

import (
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/timefmt"
)

// CreateUser saves a new user, assigning user.ID.
func (s *Store) CreateUser(user *models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return &models.Error{Entity: models.EntityUser, Kind: models.KindInvalidName, Msg: "name cannot be empty"}
	}
	user.ID = 0
	user.CreatedAt = timefmt.Truncate(user.CreatedAt)
	return s.run(func(tx *gorm.DB) error {
		return wrapf(models.EntityUser, tx.Create(user).Error, "create user %q", user.Name)
	})
}

// UserByID returns the user, or a database error wrapping
// models.ErrNotFound.
func (s *Store) UserByID(id uint) (*models.User, error) {
	var users []models.User
	err := s.run(func(tx *gorm.DB) error {
		return wrapf(models.EntityUser, tx.Where("id = ?", id).Limit(1).Find(&users).Error, "find user #%d", id)
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, models.NotFound(models.EntityUser, id)
	}
	return &users[0], nil
}

// AllUsers returns every user ordered by id.
func (s *Store) AllUsers() ([]models.User, error) {
	users := []models.User{}
	err := s.run(func(tx *gorm.DB) error {
		return wrap(models.EntityUser, tx.Order("id").Find(&users).Error, "list users")
	})
	return users, err
}

// CountActiveUsers returns how many users are active.
func (s *Store) CountActiveUsers() (int64, error) {
	var n int64
	err := s.run(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).Where("status = ?", models.UserActive.String()).Count(&n).Error
		return wrap(models.EntityUser, err, "count active users")
	})
	return n, err
}

// FirstActiveUserID returns the lowest active user id, if any.
func (s *Store) FirstActiveUserID() (uint, bool, error) {
	var ids []uint
	err := s.run(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).
			Where("status = ?", models.UserActive.String()).
			Order("id").
			Limit(1).
			Pluck("id", &ids).Error
		return wrap(models.EntityUser, err, "find active user")
	})
	if err != nil || len(ids) == 0 {
		return 0, false, err
	}
	return ids[0], true, nil
}
