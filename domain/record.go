package domain

import "time"

// TaskRecord is the flat mapping stored as one task document.
type TaskRecord struct {
	ID          string     `bson:"task_id" json:"task_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Priority    int        `bson:"priority" json:"priority"`
	Status      int        `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Record produces the storage mapping for t.
func (t *Task) Record() TaskRecord {
	return TaskRecord{
		ID:          t.id,
		Title:       t.title,
		Description: t.description,
		DueDate:     t.DueDate(),
		Priority:    int(t.priority),
		Status:      int(t.status),
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
}

// TaskFromRecord rebuilds a Task from stored data without re-running
// full validation. Missing fields fall back to safe defaults: medium
// priority, pending status, a fresh id, and reconstruction-time
// timestamps.
func TaskFromRecord(rec TaskRecord) *Task {
	id := rec.ID
	if id == "" {
		id = NewTaskID()
	}
	priority := Priority(rec.Priority)
	if !priority.Valid() {
		priority = PriorityMedium
	}
	status := Status(rec.Status)
	if !status.Valid() {
		status = StatusPending
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	var due *time.Time
	if rec.DueDate != nil {
		d := *rec.DueDate
		due = &d
	}

	return &Task{
		id:          id,
		title:       rec.Title,
		description: rec.Description,
		dueDate:     due,
		priority:    priority,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}
