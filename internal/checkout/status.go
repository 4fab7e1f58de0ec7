package checkout

// Status is the orchestrator's position in the checkout flow.
type Status string

const (
	StatusNoMethod       Status = "NO_METHOD"
	StatusMethodSelected Status = "METHOD_SELECTED"
	StatusSubmitting     Status = "SUBMITTING"
	StatusCompleted      Status = "COMPLETED"
	StatusFailed         Status = "FAILED"
)

// IsTerminal reports whether the flow is over. FAILED is not terminal:
// a cancelled payment is recoverable and the user may retry.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo encodes the legal moves of the checkout machine.
func CanTransitionTo(from, to Status) bool {
	switch to {
	case StatusMethodSelected:
		// Selecting again switches methods; a failed payment may be
		// retried by reselecting.
		return from == StatusNoMethod || from == StatusMethodSelected || from == StatusFailed
	case StatusSubmitting:
		return from == StatusMethodSelected || from == StatusFailed
	case StatusCompleted, StatusFailed:
		return from == StatusSubmitting
	default:
		return false
	}
}
