package pipeline

import (
	"time"

	"fir-voice/internal/app/api/provider"
)

// State of one request in the pipeline
type State string

const (
	StateReceived    State = "RECEIVED"
	StateStaged      State = "STAGED"
	StateNormalized  State = "NORMALIZED"
	StateTranscribed State = "TRANSCRIBED"
	StateFailed      State = "FAILED"
	StateCleaned     State = "CLEANED"
)

// Run is the record of one pass through the pipeline. Cleanup happens after
// both TRANSCRIBED and FAILED, so every trace ends in CLEANED.
type Run struct {
	RequestID string
	States    []State
	// Artifacts lists every path the run created or could have created.
	Artifacts []string
	Started   time.Time
	Elapsed   time.Duration

	Transcript *provider.Transcript
	Err        error
}

func (r *Run) enter(s State) {
	r.States = append(r.States, s)
}

// Failed reports whether the run ended in the FAILED state
func (r *Run) Failed() bool {
	for _, s := range r.States {
		if s == StateFailed {
			return true
		}
	}
	return false
}

// Last returns the final state of the run
func (r *Run) Last() State {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}
