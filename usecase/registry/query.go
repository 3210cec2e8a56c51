package registry

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/dates"
)

// Sort keys accepted by SortTasks.
const (
	SortByCreated  = "created_at"
	SortByDueDate  = "due_date"
	SortByPriority = "priority"
	SortByTitle    = "title"
)

// Due-date filter values recognized by FilterOptions.
const (
	DueToday   = "today"
	DueOverdue = "overdue"
)

// FilterOptions narrows task listings. Nil or empty predicates are
// skipped; all supplied predicates must match. A Due value other than
// today or overdue is ignored.
type FilterOptions struct {
	Priority *domain.Priority
	Status   *domain.Status
	Due      string
	Search   string
}

func (o FilterOptions) matches(t *domain.Task, now time.Time) bool {
	if o.Priority != nil && t.Priority() != *o.Priority {
		return false
	}
	if o.Status != nil && t.Status() != *o.Status {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(o.Due)) {
	case DueToday:
		due := t.DueDate()
		if due == nil || !dates.SameDay(*due, now) {
			return false
		}
	case DueOverdue:
		if !t.IsOverdue() {
			return false
		}
	}
	if o.Search != "" {
		needle := strings.ToLower(o.Search)
		if !strings.Contains(strings.ToLower(t.Title()), needle) &&
			!strings.Contains(strings.ToLower(t.Description()), needle) {
			return false
		}
	}
	return true
}

// Filter returns the tasks matching every supplied predicate,
// evaluated over a snapshot of the mirror.
func (r *Registry) Filter(ctx context.Context, opts FilterOptions) []*domain.Task {
	tasks := r.ListAll(ctx)
	now := time.Now()

	matched := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if opts.matches(t, now) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Overdue returns the tasks whose deadline has passed.
func (r *Registry) Overdue(ctx context.Context) []*domain.Task {
	return r.Filter(ctx, FilterOptions{Due: DueOverdue})
}

// farFuture stands in for a missing due date so undated tasks always
// sort as latest.
var farFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

func dueKey(t *domain.Task) time.Time {
	if due := t.DueDate(); due != nil {
		return *due
	}
	return farFuture
}

// SortTasks orders a copy of tasks by the given key. Unknown keys
// return the input unchanged; the sort is stable.
func SortTasks(tasks []*domain.Task, key string, descending bool) []*domain.Task {
	var less func(a, b *domain.Task) bool
	switch key {
	case SortByCreated:
		less = func(a, b *domain.Task) bool { return a.CreatedAt().Before(b.CreatedAt()) }
	case SortByDueDate:
		less = func(a, b *domain.Task) bool { return dueKey(a).Before(dueKey(b)) }
	case SortByPriority:
		less = func(a, b *domain.Task) bool { return a.Priority() < b.Priority() }
	case SortByTitle:
		less = func(a, b *domain.Task) bool {
			return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
		}
	default:
		return tasks
	}

	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Row is one task formatted for table rendering.
type Row struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	Created     string
	Overdue     string
}

// DisplayOptions composes filtering and ordering for presentation.
// The zero value lists everything newest-created first.
type DisplayOptions struct {
	Filter    FilterOptions
	SortKey   string
	Ascending bool
}

// ListForDisplay filters, sorts, and formats tasks for rendering. A
// pure read: no mutation of the mirror.
func (r *Registry) ListForDisplay(ctx context.Context, opts DisplayOptions) []Row {
	key := opts.SortKey
	if key == "" {
		key = SortByCreated
	}
	tasks := SortTasks(r.Filter(ctx, opts.Filter), key, !opts.Ascending)

	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, rowFor(t))
	}
	return rows
}

func rowFor(t *domain.Task) Row {
	return Row{
		ID:          t.ID(),
		Title:       truncate(t.Title(), 30),
		Description: truncate(t.Description(), 40),
		DueDate:     formatDue(t.DueDate()),
		Priority:    t.Priority().DisplayName(),
		Status:      t.Status().DisplayName(),
		Created:     t.CreatedAt().Format(dates.DisplayLayout),
		Overdue:     yesNo(t.IsOverdue()),
	}
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "Not set"
	}
	return due.Format(dates.DisplayLayout)
}

// truncate shortens s to max runes, ellipsis included.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
