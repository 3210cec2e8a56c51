// Package validation holds the input checks the terminal surface runs
// before calling into the registry, so prompts can re-ask instead of
// surfacing entity errors mid-form.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/dates"
)

// TaskID checks the 8-character alphanumeric id shape.
func TaskID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("task id cannot be empty")
	}
	if !domain.ValidTaskID(id) {
		return fmt.Errorf("task id must be %d alphanumeric characters", domain.IDLength)
	}
	return nil
}

// Title pre-checks the title the same way the entity will.
func Title(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return errors.New("title cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxTitleLen {
		return fmt.Errorf("title cannot exceed %d characters", domain.MaxTitleLen)
	}
	return nil
}

// Description pre-checks the description length.
func Description(description string) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > domain.MaxDescriptionLen {
		return fmt.Errorf("description cannot exceed %d characters", domain.MaxDescriptionLen)
	}
	return nil
}

// DueDate accepts empty input; anything else must parse under the
// shared date rules.
func DueDate(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if _, ok := dates.Parse(text, time.Now()); !ok {
		return errors.New("invalid date format, use YYYY-MM-DD, DD/MM/YYYY, or keywords like 'today' and 'tomorrow'")
	}
	return nil
}

// Priority requires a recognized priority name.
func Priority(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("priority cannot be empty")
	}
	if _, err := domain.ParsePriority(name); err != nil {
		return fmt.Errorf("invalid priority, must be one of: %s", strings.Join(domain.PriorityNames(), ", "))
	}
	return nil
}

// Status requires a recognized status name.
func Status(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("status cannot be empty")
	}
	if _, err := domain.ParseStatus(name); err != nil {
		return fmt.Errorf("invalid status, must be one of: %s", strings.Join(domain.StatusNames(), ", "))
	}
	return nil
}

// DueFilter requires one of the due-date listing filters.
func DueFilter(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today", "overdue":
		return nil
	}
	return errors.New("due filter must be 'today' or 'overdue'")
}

// SortKey requires one of the listing sort keys.
func SortKey(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "created_at", "due_date", "priority", "title":
		return nil
	}
	return errors.New("sort key must be one of: created_at, due_date, priority, title")
}

// YesNo parses a confirmation answer.
func YesNo(response string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, errors.New("please enter 'y' or 'n'")
}

// Sanitize strips characters with quoting significance and collapses
// runs of whitespace.
func Sanitize(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch r {
		case '<', '>', '"', '\'':
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
