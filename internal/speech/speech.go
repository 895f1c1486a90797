package speech

import (
	"context"
	"errors"
)

var (
	ErrUnavailable  = errors.New("speech recognition is not supported on this platform")
	ErrNotListening = errors.New("speech recognition is not listening")
)

type RecognitionConfig struct {
	Language        string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

func DefaultRecognitionConfig(language string) RecognitionConfig {
	return RecognitionConfig{
		Language:        language,
		Continuous:      true,
		InterimResults:  false,
		MaxAlternatives: 1,
	}
}

type Alternative struct {
	Transcript string
	Confidence float64
}

// Result is one utterance; Alternatives are ranked best first.
type Result struct {
	Alternatives []Alternative
	IsFinal      bool
}

func (r Result) Best() (Alternative, bool) {
	if len(r.Alternatives) == 0 {
		return Alternative{}, false
	}
	return r.Alternatives[0], true
}

type Listener interface {
	OnResult(result Result)
	OnError(err error)
	OnEnd()
}

type Capability interface {
	StartListening(ctx context.Context, cfg RecognitionConfig, listener Listener) error
	Stop() error
}
