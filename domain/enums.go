package domain

import (
	"fmt"
	"strings"
)

// Priority ranks how urgent a task is. The ordinal encoding is part of
// the storage contract and sorts from least to most urgent.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// ParsePriority resolves a case-insensitive priority name.
func ParsePriority(name string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, name)
	}
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// String returns the storage name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

// DisplayName returns the capitalized form used in rendered output.
func (p Priority) DisplayName() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return "Unknown"
}

// PriorityNames lists the accepted priority inputs in ordinal order.
func PriorityNames() []string {
	return []string{"low", "medium", "high"}
}

// Status tracks where a task sits in its lifecycle. The ordinal
// encoding is part of the storage contract.
type Status int

const (
	StatusPending    Status = 1
	StatusInProgress Status = 2
	StatusCompleted  Status = 3
)

// ParseStatus resolves a case-insensitive status name.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pending":
		return StatusPending, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, name)
	}
}

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

// String returns the storage name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// DisplayName returns the capitalized form used in rendered output.
func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return "Unknown"
}

// StatusNames lists the accepted status inputs in ordinal order.
func StatusNames() []string {
	return []string{"pending", "in_progress", "completed"}
}
