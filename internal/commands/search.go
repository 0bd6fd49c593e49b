package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/tui"
)

// Match ranks, best first.
const (
	matchNone = iota
	matchContains
	matchSuffix
	matchPrefix
	matchExact
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks across all fields",
		Long: `Search tasks with ranked matching:
- Exact match (highest priority)
- Prefix match
- Suffix match
- Contains match (lowest priority)

Search is case insensitive and looks at the title, description, tags, status and priority.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		tasks, err := a.store.AllTasks()
		if err != nil {
			return err
		}
		results := searchTasks(tasks, query)
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		if jsonOutput {
			return renderSearchJSON(cmd.OutOrStdout(), results, query)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Search results for '%s' (%d found):\n", query, len(results))
		if len(results) == 0 {
			fmt.Fprintln(out, "No tasks found matching your search.")
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, tui.TaskTable(results, a.now()))
		return nil
	})

	cmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

// searchTasks returns the tasks matching query, best match first and by id
// within a rank.
func searchTasks(tasks []models.Task, query string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type ranked struct {
		task models.Task
		rank int
	}
	var hits []ranked
	for _, task := range tasks {
		if rank := taskRank(task, q); rank > matchNone {
			hits = append(hits, ranked{task, rank})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank > hits[j].rank
		}
		return hits[i].task.ID < hits[j].task.ID
	})

	out := make([]models.Task, len(hits))
	for i, h := range hits {
		out[i] = h.task
	}
	return out
}

func taskRank(task models.Task, q string) int {
	fields := []string{task.Title, task.Status.String(), task.Priority.String()}
	if task.Description != nil {
		fields = append(fields, *task.Description)
	}
	fields = append(fields, task.TagNames()...)

	best := matchNone
	for _, f := range fields {
		best = max(best, fieldRank(strings.ToLower(f), q))
	}
	return best
}

func fieldRank(field, q string) int {
	switch {
	case field == q:
		return matchExact
	case strings.HasPrefix(field, q):
		return matchPrefix
	case strings.HasSuffix(field, q):
		return matchSuffix
	case strings.Contains(field, q):
		return matchContains
	}
	return matchNone
}

// renderSearchJSON outputs search results as JSON
func renderSearchJSON(w io.Writer, tasks []models.Task, query string) error {
	result := struct {
		Query string        `json:"query"`
		Count int           `json:"count"`
		Tasks []models.Task `json:"tasks"`
	}{
		Query: query,
		Count: len(tasks),
		Tasks: tasks,
	}
	if result.Tasks == nil {
		result.Tasks = []models.Task{}
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Fprintln(w, string(jsonBytes))
	return nil
}
