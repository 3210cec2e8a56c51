package registry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/dates"
)

// registryWith loads a registry from pre-seeded records so ordering
// and due dates are fully deterministic.
func registryWith(t *testing.T, records ...domain.TaskRecord) *Registry {
	t.Helper()
	store := newFakeStore()
	for _, rec := range records {
		store.records[rec.ID] = rec
	}
	reg := New(store, nil)
	if err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return reg
}

func queryFixture(t *testing.T) *Registry {
	t.Helper()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.Local)
	// Still today on the calendar, in the future for almost the whole
	// test day.
	today := dates.Midnight(time.Now()).AddDate(0, 0, 1).Add(-time.Second)
	yesterday := dates.Midnight(time.Now()).AddDate(0, 0, -1)
	nextWeek := dates.Midnight(time.Now()).AddDate(0, 0, 7)

	return registryWith(t,
		domain.TaskRecord{
			ID: "fixture1", Title: "Write report", Description: "quarterly numbers",
			DueDate: &today, Priority: int(domain.PriorityHigh), Status: int(domain.StatusPending),
			CreatedAt: base, UpdatedAt: base,
		},
		domain.TaskRecord{
			ID: "fixture2", Title: "Pay rent", Description: "",
			DueDate: &yesterday, Priority: int(domain.PriorityHigh), Status: int(domain.StatusInProgress),
			CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
		},
		domain.TaskRecord{
			ID: "fixture3", Title: "Water plants", Description: "balcony and kitchen",
			DueDate: nil, Priority: int(domain.PriorityLow), Status: int(domain.StatusPending),
			CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(2 * time.Minute),
		},
		domain.TaskRecord{
			ID: "fixture4", Title: "Book flights", Description: "report back with prices",
			DueDate: &nextWeek, Priority: int(domain.PriorityMedium), Status: int(domain.StatusCompleted),
			CreatedAt: base.Add(3 * time.Minute), UpdatedAt: base.Add(3 * time.Minute),
		},
		domain.TaskRecord{
			ID: "fixture5", Title: "Call dentist", Description: "",
			DueDate: &yesterday, Priority: int(domain.PriorityMedium), Status: int(domain.StatusCompleted),
			CreatedAt: base.Add(4 * time.Minute), UpdatedAt: base.Add(4 * time.Minute),
		},
	)
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID()
	}
	return out
}

func TestFilterPredicatesAreConjunctive(t *testing.T) {
	reg := queryFixture(t)
	ctx := context.Background()

	high := domain.PriorityHigh
	pending := domain.StatusPending

	got := reg.Filter(ctx, FilterOptions{Priority: &high, Status: &pending})
	if len(got) != 1 || got[0].ID() != "fixture1" {
		t.Errorf("Filter(high AND pending) = %v, want [fixture1]", ids(got))
	}

	got = reg.Filter(ctx, FilterOptions{Priority: &high})
	if len(got) != 2 {
		t.Errorf("Filter(high) returned %d tasks, want 2", len(got))
	}

	got = reg.Filter(ctx, FilterOptions{})
	if len(got) != 5 {
		t.Errorf("empty filter returned %d tasks, want all 5", len(got))
	}
}

func TestFilterDue(t *testing.T) {
	reg := queryFixture(t)
	ctx := context.Background()

	got := reg.Filter(ctx, FilterOptions{Due: DueToday})
	if len(got) != 1 || got[0].ID() != "fixture1" {
		t.Errorf("Filter(due today) = %v, want [fixture1]", ids(got))
	}

	// Overdue is a pure due-date predicate: the completed fixture5
	// counts, while the completed-but-future fixture4 does not.
	got = reg.Filter(ctx, FilterOptions{Due: DueOverdue})
	if len(got) != 2 || got[0].ID() != "fixture5" || got[1].ID() != "fixture2" {
		t.Errorf("Filter(overdue) = %v, want [fixture5 fixture2]", ids(got))
	}

	got = reg.Filter(ctx, FilterOptions{Due: "next_thursday"})
	if len(got) != 5 {
		t.Errorf("unrecognized due value filtered to %d tasks, want all 5", len(got))
	}
}

func TestFilterSearchSpansTitleAndDescription(t *testing.T) {
	reg := queryFixture(t)
	ctx := context.Background()

	got := reg.Filter(ctx, FilterOptions{Search: "REPORT"})
	if len(got) != 2 {
		t.Fatalf("Filter(search report) = %v, want fixture1 and fixture4", ids(got))
	}
	for _, task := range got {
		if task.ID() != "fixture1" && task.ID() != "fixture4" {
			t.Errorf("unexpected match %s", task.ID())
		}
	}

	if got := reg.Filter(ctx, FilterOptions{Search: "zzz"}); len(got) != 0 {
		t.Errorf("Filter(search zzz) = %v, want none", ids(got))
	}
}

func TestOverdueHelper(t *testing.T) {
	reg := queryFixture(t)

	got := reg.Overdue(context.Background())
	if len(got) != 2 || got[0].ID() != "fixture5" || got[1].ID() != "fixture2" {
		t.Errorf("Overdue() = %v, want [fixture5 fixture2]", ids(got))
	}
}

func TestSortTasks(t *testing.T) {
	reg := queryFixture(t)
	all := reg.ListAll(context.Background())

	t.Run("created ascending", func(t *testing.T) {
		got := ids(SortTasks(all, SortByCreated, false))
		want := []string{"fixture1", "fixture2", "fixture3", "fixture4", "fixture5"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})

	t.Run("due date ascending puts undated last", func(t *testing.T) {
		got := ids(SortTasks(all, SortByDueDate, false))
		if got[len(got)-1] != "fixture3" {
			t.Errorf("order = %v, want fixture3 (no due date) last", got)
		}
		if got[0] != "fixture2" && got[0] != "fixture5" {
			t.Errorf("order = %v, want a yesterday-due task first", got)
		}
	})

	t.Run("priority descending", func(t *testing.T) {
		got := SortTasks(all, SortByPriority, true)
		if got[0].Priority() != domain.PriorityHigh {
			t.Errorf("first task priority = %v, want high", got[0].Priority())
		}
		if got[len(got)-1].Priority() != domain.PriorityLow {
			t.Errorf("last task priority = %v, want low", got[len(got)-1].Priority())
		}
	})

	t.Run("title folds case", func(t *testing.T) {
		got := ids(SortTasks(all, SortByTitle, false))
		want := []string{"fixture4", "fixture5", "fixture2", "fixture3", "fixture1"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})

	t.Run("unknown key leaves order unchanged", func(t *testing.T) {
		got := ids(SortTasks(all, "updated_at", false))
		for i := range all {
			if got[i] != all[i].ID() {
				t.Fatalf("order = %v, want the input order", got)
			}
		}
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		// fixture2 and fixture5 share a due date; input order must hold.
		got := ids(SortTasks(SortTasks(all, SortByCreated, false), SortByDueDate, false))
		i2 := indexOf(got, "fixture2")
		i5 := indexOf(got, "fixture5")
		if i2 == -1 || i5 == -1 || i2 > i5 {
			t.Errorf("order = %v, want fixture2 before fixture5", got)
		}
	})

	t.Run("input is not reordered", func(t *testing.T) {
		before := ids(all)
		SortTasks(all, SortByTitle, false)
		after := ids(all)
		for i := range before {
			if before[i] != after[i] {
				t.Fatal("SortTasks reordered its input slice")
			}
		}
	})
}

func indexOf(ss []string, want string) int {
	for i, s := range ss {
		if s == want {
			return i
		}
	}
	return -1
}

func TestListForDisplay(t *testing.T) {
	reg := queryFixture(t)
	ctx := context.Background()

	t.Run("defaults to newest first", func(t *testing.T) {
		rows := reg.ListForDisplay(ctx, DisplayOptions{})
		if len(rows) != 5 {
			t.Fatalf("got %d rows, want 5", len(rows))
		}
		if rows[0].ID != "fixture5" || rows[4].ID != "fixture1" {
			t.Errorf("row order = %s..%s, want fixture5..fixture1", rows[0].ID, rows[4].ID)
		}
		if rows[0].Overdue != "Yes" {
			t.Errorf("Overdue = %q, want Yes for a completed task past its due date", rows[0].Overdue)
		}
	})

	t.Run("formats the write report row", func(t *testing.T) {
		high := domain.PriorityHigh
		rows := reg.ListForDisplay(ctx, DisplayOptions{Filter: FilterOptions{Priority: &high, Search: "report"}})
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		row := rows[0]
		if row.Title != "Write report" || row.Priority != "High" || row.Status != "Pending" {
			t.Errorf("row = %+v, want Write report/High/Pending", row)
		}
		if row.Overdue != "No" {
			t.Errorf("Overdue = %q, want No for a task due later today", row.Overdue)
		}
		if row.DueDate == "Not set" {
			t.Error("DueDate rendered as Not set for a dated task")
		}
	})

	t.Run("renders missing due dates", func(t *testing.T) {
		low := domain.PriorityLow
		rows := reg.ListForDisplay(ctx, DisplayOptions{Filter: FilterOptions{Priority: &low}})
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if rows[0].DueDate != "Not set" {
			t.Errorf("DueDate = %q, want %q", rows[0].DueDate, "Not set")
		}
	})

	t.Run("truncates long text", func(t *testing.T) {
		longTitle := strings.Repeat("t", 45)
		longDesc := strings.Repeat("d", 60)
		reg := registryWith(t, domain.TaskRecord{
			ID: "longtask", Title: longTitle, Description: longDesc,
			Priority:  int(domain.PriorityMedium),
			Status:    int(domain.StatusPending),
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})

		rows := reg.ListForDisplay(ctx, DisplayOptions{})
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if len(rows[0].Title) != 30 || !strings.HasSuffix(rows[0].Title, "...") {
			t.Errorf("Title = %q (len %d), want 30 runes ending in ...", rows[0].Title, len(rows[0].Title))
		}
		if len(rows[0].Description) != 40 || !strings.HasSuffix(rows[0].Description, "...") {
			t.Errorf("Description = %q (len %d), want 40 runes ending in ...", rows[0].Description, len(rows[0].Description))
		}
	})
}
