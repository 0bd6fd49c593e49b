package models

import (
	"strings"
	"time"

	"github.com/balkashynov/studio/internal/timefmt"
)

// User owns tasks.
type User struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Status    UserStatus `gorm:"not null" json:"status"`
	CreatedAt time.Time  `gorm:"serializer:minute;autoCreateTime:false" json:"created_at"`
}

func (User) TableName() string { return "users" }

// NewUser validates and builds an active, unsaved user.
func NewUser(name string) (*User, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, newError(EntityUser, KindInvalidName, "name cannot be empty")
	}
	return &User{
		Name:      trimmed,
		Status:    UserActive,
		CreatedAt: timefmt.Now(),
	}, nil
}
