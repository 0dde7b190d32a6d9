package exercise

import (
	ex "github.com/carnetlify/carnetlify/internal/exercise"
)

// verifiedMsg is sent when a verification round trip has finished.
type verifiedMsg struct {
	State ex.State
}

// feedbackFadeMsg is sent when the feedback display period ends. Seq
// identifies the verification it belongs to so stale fades are ignored.
type feedbackFadeMsg struct {
	Seq int
}

// openFailedMsg is sent when the next lesson could not be opened.
type openFailedMsg struct {
	Err error
}
