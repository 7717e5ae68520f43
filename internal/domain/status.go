package domain

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
	StatusCancelled Status = "cancelled"
)

func NewStatus(s string) (Status, error) {
	switch s {
	case string(StatusPending), string(StatusCompleted), string(StatusMissed), string(StatusCancelled):
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusMissed, StatusCancelled:
		return true
	default:
		return false
	}
}
