package session

import (
	"errors"
	"strings"

	"github.com/foxseedlab/lucidia/internal/speech"
)

// State is everything the capture view renders. Transitions below are pure;
// the Controller is the only owner of a live State.
type State struct {
	Transcript string
	Listening  bool
	Available  bool
	Submitting bool
	Analysis   string
	LastError  string
}

func initialState() State {
	return State{Available: true}
}

func applyStart(s State) State {
	if !s.Available || s.Listening {
		return s
	}
	s.Listening = true
	s.LastError = ""
	return s
}

// applyFinalSegment appends a finalized segment separated by a single space.
// Blank segments and segments arriving while disarmed leave the state untouched.
func applyFinalSegment(s State, segment string) State {
	if !s.Listening || strings.TrimSpace(segment) == "" {
		return s
	}
	if s.Transcript == "" {
		s.Transcript = segment
		return s
	}
	s.Transcript = s.Transcript + " " + segment
	return s
}

func applyStop(s State) State {
	s.Listening = false
	return s
}

func applyEnd(s State) State {
	s.Listening = false
	return s
}

func applyRecognitionError(s State, err error) State {
	s.Listening = false
	s.LastError = recognitionErrorText(err)
	return s
}

func applyUnavailable(s State) State {
	s.Available = false
	s.Listening = false
	s.LastError = messageUnavailable
	return s
}

func applyClear(s State) State {
	s.Transcript = ""
	return s
}

func applySetTranscript(s State, text string) State {
	s.Transcript = text
	return s
}

func applySubmitStarted(s State) State {
	s.Submitting = true
	return s
}

// applyAnalysis replaces the previous analysis wholesale.
func applyAnalysis(s State, text string) State {
	s.Submitting = false
	s.Analysis = text
	return s
}

func recognitionErrorText(err error) string {
	if err == nil {
		return messageRecognitionFailed
	}
	if errors.Is(err, speech.ErrUnavailable) {
		return messageUnavailable
	}
	return messageRecognitionFailed + ": " + err.Error()
}
