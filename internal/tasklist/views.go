package tasklist

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sadopc/elevate/internal/api"
)

// CategoryAll is the wildcard filter value that matches every category.
// It exists only in the view layer; no task ever carries it.
const CategoryAll api.Category = "All"

// Filter selects tasks by category and a case-insensitive substring
// query against title and description.
type Filter struct {
	Category api.Category // CategoryAll or empty matches everything
	Query    string
}

func (f Filter) match(t api.Task) bool {
	if f.Category != "" && f.Category != CategoryAll && t.Category != f.Category {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), q)
}

type SortKey string

const (
	SortByCreated SortKey = "created_at"
	SortByDue     SortKey = "due_date"
	SortByTitle   SortKey = "title"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

type Sort struct {
	Key SortKey
	Dir SortDir
}

// titles compares task titles with locale-aware ordering.
var titles = collate.New(language.English)

// DeriveView returns the filtered, sorted slice of tasks to display.
// The input is never mutated and the sort is stable, so identical
// inputs always yield identical output order. Tasks missing the sort
// key land at the end of the displayed order regardless of direction.
func DeriveView(tasks []api.Task, f Filter, s Sort) []api.Task {
	view := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.match(t) {
			view = append(view, t)
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		cmp := compareTasks(view[i], view[j], s)
		return cmp < 0
	})
	return view
}

func compareTasks(a, b api.Task, s Sort) int {
	var cmp int
	switch s.Key {
	case SortByTitle:
		cmp = titles.CompareString(a.Title, b.Title)
	case SortByDue:
		cmp = compareInstants(sortValue(a.DueDate, s.Dir), sortValue(b.DueDate, s.Dir))
	default:
		cmp = compareInstants(timeValue(a.CreatedAt, s.Dir), timeValue(b.CreatedAt, s.Dir))
	}
	if s.Dir == SortDesc {
		cmp = -cmp
	}
	return cmp
}

// sortValue maps an optional timestamp onto a comparable float: +Inf
// when ascending and -Inf when descending, so that after the direction
// flip undated tasks are always grouped after dated ones.
func sortValue(t *time.Time, dir SortDir) float64 {
	if t == nil {
		if dir == SortAsc {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return float64(t.UnixNano())
}

func timeValue(t time.Time, dir SortDir) float64 {
	if t.IsZero() {
		if dir == SortAsc {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return float64(t.UnixNano())
}

func compareInstants(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CategoryStat is the per-category slice of the analytics.
type CategoryStat struct {
	Category  api.Category
	Count     int
	Completed int
}

// Analytics is the aggregate view over the whole collection. It is
// recomputed from scratch on every read, never cached across a
// mutation.
type Analytics struct {
	Total          int
	Completed      int
	Pending        int
	CompletionRate int // rounded percent, 0 when there are no tasks
	Categories     []CategoryStat
}

// DeriveAnalytics computes the aggregate counts for a task list.
func DeriveAnalytics(tasks []api.Task) Analytics {
	a := Analytics{Total: len(tasks)}

	byCategory := make(map[api.Category]*CategoryStat, len(api.Categories))
	a.Categories = make([]CategoryStat, len(api.Categories))
	for i, c := range api.Categories {
		a.Categories[i] = CategoryStat{Category: c}
		byCategory[c] = &a.Categories[i]
	}

	for _, t := range tasks {
		if t.IsCompleted {
			a.Completed++
		}
		if stat, ok := byCategory[t.Category]; ok {
			stat.Count++
			if t.IsCompleted {
				stat.Completed++
			}
		}
	}

	a.Pending = a.Total - a.Completed
	if a.Total > 0 {
		a.CompletionRate = int(math.Round(float64(a.Completed) / float64(a.Total) * 100))
	}
	return a
}
