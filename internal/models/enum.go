package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// enumKey folds case and drops word separators so "In Progress",
// "in_progress" and "INPROGRESS" compare equal.
func enumKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '_', '-', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// scanText reads a TEXT column value for the enum scanners.
func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL enum value")
	default:
		return "", fmt.Errorf("unsupported enum column type %T", src)
	}
}

// Status is a task's workflow state.
type Status int

const (
	StatusTodo Status = iota + 1
	StatusInProgress
	StatusPaused
	StatusDone
	StatusArchived
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusPaused, StatusDone, StatusArchived}

var statusNames = map[Status]string{
	StatusTodo:       "todo",
	StatusInProgress: "in_progress",
	StatusPaused:     "paused",
	StatusDone:       "done",
	StatusArchived:   "archived",
}

var statusKeys = map[string]Status{
	"todo":       StatusTodo,
	"inprogress": StatusInProgress,
	"paused":     StatusPaused,
	// earlier schema revision
	"backlog":  StatusPaused,
	"done":     StatusDone,
	"archived": StatusArchived,
}

// legacyStatusNames are stored values written by earlier schema revisions.
var legacyStatusNames = map[Status][]string{
	StatusPaused: {"backlog"},
}

// StoredNames lists every stored value that reads back as s, canonical first.
func (s Status) StoredNames() []string {
	return append([]string{s.String()}, legacyStatusNames[s]...)
}

// ParseStatus parses s case- and separator-insensitively.
func ParseStatus(s string) (Status, error) {
	if st, ok := statusKeys[enumKey(s)]; ok {
		return st, nil
	}
	return 0, newError(EntityTask, KindInvalidStatus, "%s", s)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is a known member.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Value stores the canonical lowercase form.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot store unknown task status %d", int(s))
	}
	return s.String(), nil
}

// Scan parses a stored value; unknown values fail the read.
func (s *Status) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	parsed, err := ParseStatus(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority is a task's urgency.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// DefaultPriority applies when a task is created without one.
const DefaultPriority = PriorityMedium

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

var priorityKeys = map[string]Priority{
	"low":    PriorityLow,
	"1":      PriorityLow,
	"medium": PriorityMedium,
	"2":      PriorityMedium,
	"high":   PriorityHigh,
	"3":      PriorityHigh,
}

// ParsePriority accepts low/medium/high in any case, or 1/2/3.
func ParsePriority(s string) (Priority, error) {
	if p, ok := priorityKeys[enumKey(s)]; ok {
		return p, nil
	}
	return 0, newError(EntityTask, KindInvalidPriority, "%s", s)
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Valid reports whether p is a known member.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot store unknown task priority %d", int(p))
	}
	return p.String(), nil
}

func (p *Priority) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	parsed, err := ParsePriority(text)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UserStatus marks whether a user account is in use.
type UserStatus int

const (
	UserActive UserStatus = iota + 1
	UserInactive
)

// ParseUserStatus accepts active/inactive in any case.
func ParseUserStatus(s string) (UserStatus, error) {
	switch enumKey(s) {
	case "active":
		return UserActive, nil
	case "inactive":
		return UserInactive, nil
	}
	return 0, newError(EntityUser, KindInvalidStatus, "%s", s)
}

func (s UserStatus) String() string {
	switch s {
	case UserActive:
		return "active"
	case UserInactive:
		return "inactive"
	}
	return fmt.Sprintf("user_status(%d)", int(s))
}

func (s UserStatus) Value() (driver.Value, error) {
	if s != UserActive && s != UserInactive {
		return nil, fmt.Errorf("cannot store unknown user status %d", int(s))
	}
	return s.String(), nil
}

func (s *UserStatus) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	parsed, err := ParseUserStatus(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (s UserStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
