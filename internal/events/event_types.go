package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee.created"
	EventEmployeeUpdated EventType = "employee.updated"
	EventEmployeeDeleted EventType = "employee.deleted"
)

// Event is published after a directory mutation has been committed.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	EmployeeID string    `json:"employee_id"`
	ActorID    string    `json:"actor_id"`
	Timestamp  time.Time `json:"timestamp"`
}
