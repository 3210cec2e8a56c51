package registry

import (
	"sort"

	"github.com/taskdeck/taskdeck/domain"
)

// taskIndex owns both task views: the id lookup map and the ordered
// slice, newest created first. Every structural change goes through
// its methods so the two views cannot diverge.
type taskIndex struct {
	byID    map[string]*domain.Task
	ordered []*domain.Task
}

func newTaskIndex() taskIndex {
	return taskIndex{byID: make(map[string]*domain.Task)}
}

func (ix *taskIndex) get(id string) (*domain.Task, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

func (ix *taskIndex) len() int {
	return len(ix.byID)
}

func (ix *taskIndex) insert(t *domain.Task) {
	ix.byID[t.ID()] = t
	ix.ordered = append(ix.ordered, t)
	ix.resort()
}

// replace swaps the stored task with the same id in both views.
// Creation time is immutable, so the order is unaffected.
func (ix *taskIndex) replace(t *domain.Task) {
	if _, ok := ix.byID[t.ID()]; !ok {
		return
	}
	ix.byID[t.ID()] = t
	for i := range ix.ordered {
		if ix.ordered[i].ID() == t.ID() {
			ix.ordered[i] = t
			return
		}
	}
}

func (ix *taskIndex) remove(id string) {
	if _, ok := ix.byID[id]; !ok {
		return
	}
	delete(ix.byID, id)
	for i := range ix.ordered {
		if ix.ordered[i].ID() == id {
			ix.ordered = append(ix.ordered[:i], ix.ordered[i+1:]...)
			return
		}
	}
}

func (ix *taskIndex) rebuild(tasks []*domain.Task) {
	ix.byID = make(map[string]*domain.Task, len(tasks))
	ix.ordered = make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := ix.byID[t.ID()]; dup {
			continue
		}
		ix.byID[t.ID()] = t
		ix.ordered = append(ix.ordered, t)
	}
	ix.resort()
}

func (ix *taskIndex) snapshot() []*domain.Task {
	out := make([]*domain.Task, len(ix.ordered))
	copy(out, ix.ordered)
	return out
}

func (ix *taskIndex) resort() {
	sort.SliceStable(ix.ordered, func(i, j int) bool {
		return ix.ordered[j].CreatedAt().Before(ix.ordered[i].CreatedAt())
	})
}
