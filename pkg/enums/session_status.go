package enums

import "fmt"

// SessionStatus tracks a training session's lifecycle.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusIncomplete SessionStatus = "incomplete"
)

var validSessionStatuses = []SessionStatus{
	SessionStatusInProgress,
	SessionStatusCompleted,
	SessionStatusIncomplete,
}

func (s SessionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionStatus.
func (s SessionStatus) IsValid() bool {
	for _, candidate := range validSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionStatus converts raw input into a SessionStatus.
func ParseSessionStatus(value string) (SessionStatus, error) {
	for _, candidate := range validSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session status %q", value)
}

// IsFinal reports whether the session has left the current slot.
func (s SessionStatus) IsFinal() bool {
	return s == SessionStatusCompleted || s == SessionStatusIncomplete
}
