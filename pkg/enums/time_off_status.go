package enums

import "fmt"

// TimeOffStatus tracks the lifecycle of a time-off request.
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDeclined TimeOffStatus = "declined"
)

var validTimeOffStatuses = []TimeOffStatus{
	TimeOffPending,
	TimeOffApproved,
	TimeOffDeclined,
}

// String implements fmt.Stringer.
func (s TimeOffStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TimeOffStatus.
func (s TimeOffStatus) IsValid() bool {
	for _, candidate := range validTimeOffStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTimeOffStatus converts raw input into a TimeOffStatus.
func ParseTimeOffStatus(value string) (TimeOffStatus, error) {
	for _, candidate := range validTimeOffStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid time off status %q", value)
}
