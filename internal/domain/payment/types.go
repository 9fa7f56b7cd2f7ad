package payment

type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInitiated, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the payment state machine has finished.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
