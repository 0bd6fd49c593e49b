package db

import (
	"strings"
)

// columnSet is an ordered list of (column, value) pairs used to build INSERT
// and UPDATE statements. Column names always come from code, values are only
// ever bound as positional parameters.
type columnSet struct {
	names  []string
	values []any
}

func (c *columnSet) set(column string, value any) {
	c.names = append(c.names, column)
	c.values = append(c.values, value)
}

func (c *columnSet) len() int {
	return len(c.names)
}

// insertSQL builds an INSERT returning the generated id.
func (c *columnSet) insertSQL(table string) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(c.names)), ", ")
	query := "INSERT INTO " + table + " (" + strings.Join(c.names, ", ") + ") VALUES (" + placeholders + ") RETURNING id"
	return query, append([]any(nil), c.values...)
}

// updateSQL builds an UPDATE of the row with the given id.
func (c *columnSet) updateSQL(table string, id uint) (string, []any) {
	assignments := make([]string, len(c.names))
	for i, name := range c.names {
		assignments[i] = name + " = ?"
	}
	query := "UPDATE " + table + " SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	args := append(append([]any(nil), c.values...), id)
	return query, args
}

// nullable maps a nil or blank *string to SQL NULL.
func nullable(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}
