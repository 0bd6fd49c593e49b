package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/timefmt"
)

var bg = context.Background()

var (
	errPoisoned = errors.New("store poisoned by a panic in an earlier call")
	errClosed   = errors.New("store is closed")
)

// run executes fn with exclusive access to the connection. A panic inside fn
// poisons the store: the lock is released, the panic propagates, and every
// later call fails with LockFailed.
func (s *Store) run(fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	if s.poisoned {
		s.mu.Unlock()
		return models.LockFailed(errPoisoned)
	}
	if s.closed {
		s.mu.Unlock()
		return models.LockFailed(errClosed)
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			s.mu.Unlock()
			panic(r)
		}
		s.mu.Unlock()
	}()

	return fn(s.db)
}

// transaction runs fn inside one database transaction under the store lock.
// Any error returned by fn rolls the whole sequence back.
func (s *Store) transaction(fn func(tx *gorm.DB) error) error {
	return s.run(func(db *gorm.DB) error {
		return db.Transaction(fn)
	})
}

// now is the store clock's wall-clock time truncated to the minute.
func (s *Store) now() time.Time {
	return timefmt.Truncate(timefmt.Naive(s.clock()))
}

// wrap turns a storage failure into a database error with operation context.
func wrap(entity string, err error, op string) error {
	if err == nil {
		return nil
	}
	return models.DatabaseError(entity, errors.Wrap(err, op))
}

// wrapf is wrap with a formatted operation.
func wrapf(entity string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return models.DatabaseError(entity, errors.Wrapf(err, format, args...))
}
