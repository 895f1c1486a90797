package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/speech"
)

var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrSuperseded      = errors.New("submission superseded by a newer one")
)

type Controller struct {
	capability speech.Capability
	client     analysis.Client
	recognizer speech.RecognitionConfig

	mu           sync.Mutex
	state        State
	generation   uint64
	submitSeq    uint64
	cancelSubmit context.CancelFunc
	onChange     func(State)
}

func NewController(capability speech.Capability, client analysis.Client, recognizer speech.RecognitionConfig) *Controller {
	return &Controller{
		capability: capability,
		client:     client,
		recognizer: recognizer,
		state:      initialState(),
	}
}

// OnChange registers an observer called after every state transition.
// The observer runs outside the controller lock.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start arms continuous listening. Starting while armed is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Available {
		c.mu.Unlock()
		return speech.ErrUnavailable
	}
	if c.state.Listening {
		c.mu.Unlock()
		return nil
	}
	if c.capability == nil {
		c.state = applyUnavailable(c.state)
		snap, fn := c.state, c.onChange
		c.mu.Unlock()
		slog.Warn("speech capability unavailable; capture disabled")
		notify(fn, snap)
		return speech.ErrUnavailable
	}
	c.generation++
	gen := c.generation
	c.state = applyStart(c.state)
	snap, fn := c.state, c.onChange
	c.mu.Unlock()
	notify(fn, snap)

	slog.Info("listening started", "generation", gen, "language", c.recognizer.Language)
	if err := c.capability.StartListening(ctx, c.recognizer, &sessionListener{controller: c, generation: gen}); err != nil {
		if errors.Is(err, speech.ErrUnavailable) {
			c.markUnavailable(gen)
		} else {
			c.handleError(gen, err)
		}
		return err
	}
	return nil
}

// Stop disarms listening. Stopping while disarmed is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.state.Listening {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	c.state = applyStop(c.state)
	snap, fn := c.state, c.onChange
	c.mu.Unlock()
	notify(fn, snap)

	slog.Info("listening stopped")
	if err := c.capability.Stop(); err != nil && !errors.Is(err, speech.ErrNotListening) {
		slog.Warn("failed to stop speech capability", "error", err)
		return err
	}
	return nil
}

func (c *Controller) Toggle(ctx context.Context) error {
	if c.Snapshot().Listening {
		return c.Stop()
	}
	return c.Start(ctx)
}

func (c *Controller) Clear() {
	c.transition(applyClear)
}

func (c *Controller) SetTranscript(text string) {
	c.transition(func(s State) State { return applySetTranscript(s, text) })
}

// Reset stops listening and clears the transcript.
func (c *Controller) Reset() error {
	err := c.Stop()
	c.Clear()
	return err
}

// Submit sends the current transcript for analysis and returns the displayed text.
// Blank transcripts are rejected without a request. A newer submission cancels
// the one in flight, whose late result is dropped.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	transcript := c.state.Transcript
	if strings.TrimSpace(transcript) == "" {
		c.mu.Unlock()
		return "", ErrEmptyTranscript
	}
	if c.cancelSubmit != nil {
		c.cancelSubmit()
	}
	submitCtx, cancel := context.WithCancel(ctx)
	c.submitSeq++
	seq := c.submitSeq
	c.cancelSubmit = cancel
	c.state = applySubmitStarted(c.state)
	snap, fn := c.state, c.onChange
	c.mu.Unlock()
	notify(fn, snap)
	defer cancel()

	slog.Info("submitting transcript", "submission_seq", seq, "transcript_chars", len(transcript))
	resp, err := c.client.Process(submitCtx, transcript)
	if err != nil {
		slog.Warn("analysis submission failed", "error", err, "submission_seq", seq)
	}
	text := analysis.Display(resp, err)

	c.mu.Lock()
	if seq != c.submitSeq {
		c.mu.Unlock()
		slog.Info("dropping superseded analysis", "submission_seq", seq)
		return "", ErrSuperseded
	}
	c.cancelSubmit = nil
	c.state = applyAnalysis(c.state, text)
	snap, fn = c.state, c.onChange
	c.mu.Unlock()
	notify(fn, snap)
	return text, nil
}

// Close stops listening and abandons any in-flight submission. The abandoned
// Submit returns ErrSuperseded.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.submitSeq++
	if c.cancelSubmit != nil {
		c.cancelSubmit()
		c.cancelSubmit = nil
	}
	c.mu.Unlock()
	return c.Stop()
}

func (c *Controller) transition(apply func(State) State) {
	c.mu.Lock()
	c.state = apply(c.state)
	snap, fn := c.state, c.onChange
	c.mu.Unlock()
	notify(fn, snap)
}

// transitionFor applies a transition only if gen is still the armed session.
func (c *Controller) transitionFor(gen uint64, invalidate bool, apply func(State) State) bool {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return false
	}
	if invalidate {
		c.generation++
	}
	before := c.state
	c.state = apply(c.state)
	snap, fn := c.state, c.onChange
	c.mu.Unlock()
	if snap != before {
		notify(fn, snap)
	}
	return true
}

func (c *Controller) markUnavailable(gen uint64) {
	if c.transitionFor(gen, true, applyUnavailable) {
		slog.Warn("speech capability unavailable; capture disabled")
	}
}

func (c *Controller) handleError(gen uint64, err error) {
	if c.transitionFor(gen, true, func(s State) State { return applyRecognitionError(s, err) }) {
		slog.Error("speech recognition error", "error", err, "generation", gen)
	}
}

func notify(fn func(State), s State) {
	if fn != nil {
		fn(s)
	}
}

type sessionListener struct {
	controller *Controller
	generation uint64
}

func (l *sessionListener) OnResult(result speech.Result) {
	if !result.IsFinal {
		return
	}
	best, ok := result.Best()
	if !ok {
		return
	}
	l.controller.transitionFor(l.generation, false, func(s State) State {
		return applyFinalSegment(s, best.Transcript)
	})
}

func (l *sessionListener) OnError(err error) {
	if errors.Is(err, speech.ErrUnavailable) {
		l.controller.markUnavailable(l.generation)
		return
	}
	l.controller.handleError(l.generation, err)
}

func (l *sessionListener) OnEnd() {
	if l.controller.transitionFor(l.generation, true, applyEnd) {
		slog.Info("listening ended by speech capability", "generation", l.generation)
	}
}
