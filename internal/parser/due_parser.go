package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/timefmt"
)

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(hour|hours|h|day|days|d|week|weeks|w)$`)
)

// ParseDueDate parses a due date relative to now.
// Supported formats:
// - 2024-12-15T18:00 (seconds and a trailing Z are accepted)
// - dd/mm/yyyy, due at the end of that day
// - today, tomorrow
// - X hours, X days, X weeks (also 3h, 2d, 1w)
//
// The result is a naive wall-clock time truncated to the minute. A failure is
// an invalid date error.
func ParseDueDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	now = timefmt.Naive(now)

	if due, err := models.ParseDate(input); err == nil {
		return due, nil
	}

	if due, err := parseDateFormat(input); err == nil {
		return due, nil
	}

	switch strings.ToLower(input) {
	case "today":
		_, end := timefmt.DayBounds(now)
		return end, nil
	case "tomorrow":
		_, end := timefmt.DayBounds(now.AddDate(0, 0, 1))
		return end, nil
	}

	due, err := parseRelativeTime(input, now)
	if err != nil {
		return time.Time{}, models.InvalidDate(fmt.Errorf("%q: %w", input, err))
	}
	return due, nil
}

// parseDateFormat parses dd/mm/yyyy format
func parseDateFormat(input string) (time.Time, error) {
	matches := dateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	due := time.Date(year, time.Month(month), day, 23, 59, 0, 0, time.UTC)

	// Rejects 31/02 and friends, which time.Date would normalize.
	if due.Day() != day || due.Month() != time.Month(month) || due.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return due, nil
}

// parseRelativeTime parses relative time formats like "3 days", "24 hours", etc.
func parseRelativeTime(input string, now time.Time) (time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(strings.ToLower(input))
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DDTHH:MM, dd/mm/yyyy, today, tomorrow, X hours, X days or X weeks")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "hour", "hours", "h":
		if amount < 1 || amount > 8760 {
			return time.Time{}, fmt.Errorf("hours must be between 1 and 8760")
		}
		return timefmt.Truncate(now.Add(time.Duration(amount) * time.Hour)), nil

	case "day", "days", "d":
		if amount < 1 || amount > 365 {
			return time.Time{}, fmt.Errorf("days must be between 1 and 365")
		}
		_, end := timefmt.DayBounds(now.AddDate(0, 0, amount))
		return end, nil

	default:
		if amount < 1 || amount > 52 {
			return time.Time{}, fmt.Errorf("weeks must be between 1 and 52")
		}
		_, end := timefmt.DayBounds(now.AddDate(0, 0, amount*7))
		return end, nil
	}
}

// FormatDueDate formats a due date for display relative to now.
func FormatDueDate(due, now time.Time) string {
	today, _ := timefmt.DayBounds(timefmt.Naive(now))
	dueDay, _ := timefmt.DayBounds(due)
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	dateStr := due.Format("2006-01-02 15:04")

	switch {
	case due.Before(timefmt.Naive(now)) && daysDiff <= 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}
