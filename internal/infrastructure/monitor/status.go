package monitor

import "time"

type Status struct {
	Store     bool      `json:"store"`
	TaskCount int       `json:"task_count"`
	LastCheck time.Time `json:"last_check"`
}
