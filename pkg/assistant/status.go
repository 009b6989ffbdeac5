package assistant

// Phase is the assistant's coarse activity state. Exactly one phase is
// active at a time.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseProcessing
	PhaseSpeaking
	PhaseError
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseProcessing:
		return "processing"
	case PhaseSpeaking:
		return "speaking"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Label returns the user-facing status line for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseListening:
		return "Listening..."
	case PhaseProcessing:
		return "Processing your request..."
	case PhaseSpeaking:
		return "Speaking..."
	case PhaseError:
		return "Error occurred"
	default:
		return "Ready to assist"
	}
}

// Status pairs a phase with its display label.
type Status struct {
	Phase Phase
	Label string
}

func statusFor(p Phase) Status {
	return Status{Phase: p, Label: p.Label()}
}
