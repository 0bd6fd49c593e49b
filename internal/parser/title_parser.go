package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/studio/internal/models"
)

var (
	tagRegex      = regexp.MustCompile(`#([a-zA-Z0-9_,-]+)`)
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9_-]+)`)
	dueRegex      = regexp.MustCompile(`due:(\S+)`)
)

// ParsedTask represents a task parsed from shorthand
type ParsedTask struct {
	Title    string
	Tags     []string
	Priority *models.Priority
	DueDate  *time.Time
	Errors   []string
}

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #tag1,tag2 +priority due:3days"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Title:  input,
		Tags:   []string{},
		Errors: []string{},
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2), keeping first occurrences
	seen := map[string]bool{}
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		for _, tag := range strings.Split(match[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" && !seen[tag] {
				seen[tag] = true
				result.Tags = append(result.Tags, tag)
			}
		}
	}
	input = tagRegex.ReplaceAllString(input, "")

	// Extract priority (+high, +3, +medium, etc.)
	if m := priorityRegex.FindStringSubmatch(input); m != nil {
		if p, err := models.ParsePriority(m[1]); err == nil {
			result.Priority = &p
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Extract due date (due:3days, due:15/12/2024, due:2024-12-15T18:00)
	if m := dueRegex.FindStringSubmatch(input); m != nil {
		due, err := ParseDueDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = &due
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")
	return result
}
