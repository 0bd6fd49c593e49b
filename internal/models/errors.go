package models

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the command layer.
type Kind int

const (
	KindInvalidName Kind = iota + 1
	KindInvalidStatus
	KindInvalidPriority
	KindInvalidDate
	KindInvalidColor
	KindInvalidTag
	KindValidation
	KindDatabase
	KindLockFailed
)

var kindLabels = map[Kind]string{
	KindInvalidName:     "name",
	KindInvalidStatus:   "status",
	KindInvalidPriority: "priority",
	KindInvalidDate:     "date",
	KindInvalidColor:    "color",
	KindInvalidTag:      "tag",
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDatabase:
		return "database"
	case KindLockFailed:
		return "lock failed"
	}
	if label, ok := kindLabels[k]; ok {
		return "invalid " + label
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Entity names the family an error belongs to.
const (
	EntityTask = "task"
	EntityTag  = "tag"
	EntityUser = "user"
)

// Error is the typed failure returned by models and repositories.
type Error struct {
	Entity string
	Kind   Kind
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDatabase:
		return "database error: " + e.Msg
	case KindLockFailed:
		return "database lock failed"
	case KindValidation:
		return e.Msg
	}
	prefix := "invalid " + kindLabels[e.Kind]
	if e.Entity != "" && e.Kind != KindInvalidDate && e.Kind != KindInvalidTag {
		prefix = "invalid " + e.Entity + " " + kindLabels[e.Kind]
	}
	return prefix + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind, and by entity when the sentinel names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Entity == "" || t.Entity == e.Entity
}

// Sentinels for errors.Is.
var (
	ErrInvalidName     = &Error{Kind: KindInvalidName}
	ErrInvalidStatus   = &Error{Kind: KindInvalidStatus}
	ErrInvalidPriority = &Error{Kind: KindInvalidPriority}
	ErrInvalidDate     = &Error{Kind: KindInvalidDate}
	ErrInvalidColor    = &Error{Kind: KindInvalidColor}
	ErrInvalidTag      = &Error{Kind: KindInvalidTag}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrDatabase        = &Error{Kind: KindDatabase}
	ErrLockFailed      = &Error{Kind: KindLockFailed}
)

// ErrNotFound is the cause carried by a database error for a missing row.
var ErrNotFound = errors.New("record not found")

func newError(entity string, kind Kind, format string, args ...any) *Error {
	return &Error{Entity: entity, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// InvalidDate wraps a date parsing failure.
func InvalidDate(err error) *Error {
	return &Error{Entity: EntityTask, Kind: KindInvalidDate, Msg: err.Error(), Err: err}
}

// InvalidTag reports a tag that cannot be attached.
func InvalidTag(format string, args ...any) *Error {
	return newError(EntityTask, KindInvalidTag, format, args...)
}

// Validation reports a malformed request that is not tied to one field.
func Validation(entity, format string, args ...any) *Error {
	return newError(entity, KindValidation, format, args...)
}

// DatabaseError wraps a storage failure, keeping its message for diagnostics.
func DatabaseError(entity string, err error) *Error {
	return &Error{Entity: entity, Kind: KindDatabase, Msg: err.Error(), Err: err}
}

// NotFound is a database error whose cause is ErrNotFound.
func NotFound(entity string, id uint) *Error {
	err := fmt.Errorf("%s #%d: %w", entity, id, ErrNotFound)
	return DatabaseError(entity, err)
}

// LockFailed reports that exclusive access to the store could not be acquired.
func LockFailed(err error) *Error {
	msg := "lock failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindLockFailed, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsValidation reports whether err was raised before reaching storage.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindDatabase, KindLockFailed, 0:
		return false
	}
	return true
}
