package speech

import (
	"context"

	"github.com/foxseedlab/lucidia/internal/speech"
)

// Unavailable is the capability used when no recognizer is configured.
type Unavailable struct{}

func (Unavailable) StartListening(_ context.Context, _ speech.RecognitionConfig, _ speech.Listener) error {
	return speech.ErrUnavailable
}

func (Unavailable) Stop() error {
	return speech.ErrNotListening
}
