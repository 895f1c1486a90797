package session

import (
	"fmt"
	"strings"
)

const (
	messageUnavailable       = "Speech recognition is not supported on this platform."
	messageRecognitionFailed = "Speech recognition error"

	MessageEmptyTranscript = "Nothing to submit yet. Speak first or type a transcript."
	MessageTranscriptHint  = "Your speech will appear here"
	MessageAnalyzing       = "Analyzing..."

	labelListening = "Listening"
	labelIdle      = "Idle"
	labelDisabled  = "Disabled"
)

// FormatStatus renders a State for the terminal capture view.
func FormatStatus(s State) string {
	status := labelIdle
	switch {
	case !s.Available:
		status = labelDisabled
	case s.Listening:
		status = labelListening
	}

	transcript := s.Transcript
	if transcript == "" {
		transcript = MessageTranscriptHint
	}

	lines := []string{
		fmt.Sprintf("[%s] %s", status, transcript),
	}
	if s.Submitting {
		lines = append(lines, MessageAnalyzing)
	} else if s.Analysis != "" {
		lines = append(lines, "Analysis: "+s.Analysis)
	}
	if s.LastError != "" {
		lines = append(lines, "! "+s.LastError)
	}
	return strings.Join(lines, "\n")
}
