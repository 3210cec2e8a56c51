package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/dates"
)

// Field limits enforced on construction and every mutation.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	IDLength          = 8
)

// Task is the tracked unit of work. Fields are reachable only through
// accessors so every mutation passes validation and refreshes the
// update timestamp.
type Task struct {
	id          string
	title       string
	description string
	dueDate     *time.Time
	priority    Priority
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTaskInput carries raw construction values. Priority and Status
// default to medium/pending when empty. DueDate is free-form text
// resolved through the shared date rules. ID is generated when empty.
type NewTaskInput struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
}

// NewTask validates in and builds a Task with matching creation and
// update timestamps.
func NewTask(in NewTaskInput) (*Task, error) {
	title, err := ValidateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	description, err := ValidateDescription(in.Description)
	if err != nil {
		return nil, err
	}

	priority := PriorityMedium
	if strings.TrimSpace(in.Priority) != "" {
		if priority, err = ParsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	status := StatusPending
	if strings.TrimSpace(in.Status) != "" {
		if status, err = ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	var due *time.Time
	if strings.TrimSpace(in.DueDate) != "" {
		parsed, ok := dates.Parse(in.DueDate, time.Now())
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, in.DueDate)
		}
		due = &parsed
	}

	id := in.ID
	if id == "" {
		id = NewTaskID()
	} else if !ValidTaskID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskID, id)
	}

	now := time.Now()
	return &Task{
		id:          id,
		title:       title,
		description: description,
		dueDate:     due,
		priority:    priority,
		status:      status,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewTaskID returns a fresh 8-character task identifier.
func NewTaskID() string {
	return uuid.NewString()[:IDLength]
}

// ValidTaskID reports whether id has the expected 8-character
// alphanumeric shape.
func ValidTaskID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// ValidateTitle trims the title and checks its invariants.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLen {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// ValidateDescription trims the description and checks its length.
func ValidateDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLen {
		return "", ErrDescriptionTooLong
	}
	return trimmed, nil
}

func (t *Task) ID() string           { return t.id }
func (t *Task) Title() string        { return t.title }
func (t *Task) Description() string  { return t.description }
func (t *Task) Priority() Priority   { return t.priority }
func (t *Task) Status() Status       { return t.status }
func (t *Task) CreatedAt() time.Time { return t.createdAt }
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

// DueDate returns a copy of the deadline, nil when none is set.
func (t *Task) DueDate() *time.Time {
	if t.dueDate == nil {
		return nil
	}
	d := *t.dueDate
	return &d
}

// SetTitle replaces the title when the new value is valid.
func (t *Task) SetTitle(title string) error {
	trimmed, err := ValidateTitle(title)
	if err != nil {
		return err
	}
	t.title = trimmed
	t.touch()
	return nil
}

// SetDescription replaces the description when the new value is valid.
func (t *Task) SetDescription(description string) error {
	trimmed, err := ValidateDescription(description)
	if err != nil {
		return err
	}
	t.description = trimmed
	t.touch()
	return nil
}

// SetDueDate resolves free-form date text. Empty text clears the
// deadline.
func (t *Task) SetDueDate(text string) error {
	if strings.TrimSpace(text) == "" {
		t.dueDate = nil
		t.touch()
		return nil
	}
	parsed, ok := dates.Parse(text, time.Now())
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDueDate, text)
	}
	t.dueDate = &parsed
	t.touch()
	return nil
}

// SetPriority resolves a priority name.
func (t *Task) SetPriority(name string) error {
	p, err := ParsePriority(name)
	if err != nil {
		return err
	}
	t.priority = p
	t.touch()
	return nil
}

// SetStatus resolves a status name.
func (t *Task) SetStatus(name string) error {
	s, err := ParseStatus(name)
	if err != nil {
		return err
	}
	t.status = s
	t.touch()
	return nil
}

// Clone returns an independent copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.dueDate != nil {
		d := *t.dueDate
		c.dueDate = &d
	}
	return &c
}

// MarkCompleted transitions the task to completed. Completing an
// already-completed task is a no-op that still succeeds.
func (t *Task) MarkCompleted() {
	if t.status == StatusCompleted {
		return
	}
	t.status = StatusCompleted
	t.touch()
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.status == StatusCompleted
}

// IsOverdue reports whether the deadline is set and already in the
// past. Status plays no part: a completed task past its deadline is
// still overdue.
func (t *Task) IsOverdue() bool {
	return t != nil && t.dueDate != nil && t.dueDate.Before(time.Now())
}

// DaysUntilDue returns the calendar-day distance to the deadline, zero
// when none is set and negative once overdue.
func (t *Task) DaysUntilDue() int {
	if t.dueDate == nil {
		return 0
	}
	return dates.DaysBetween(time.Now(), *t.dueDate)
}

func (t *Task) touch() {
	t.updatedAt = time.Now()
}
