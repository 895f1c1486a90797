package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/speech"
)

type mockCapability struct {
	mu        sync.Mutex
	listeners []speech.Listener
	configs   []speech.RecognitionConfig
	startErr  error
	stopCalls int
}

func (m *mockCapability) StartListening(_ context.Context, cfg speech.RecognitionConfig, l speech.Listener) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.listeners = append(m.listeners, l)
	m.configs = append(m.configs, cfg)
	return nil
}

func (m *mockCapability) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	return nil
}

func (m *mockCapability) listener(t *testing.T, i int) speech.Listener {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= len(m.listeners) {
		t.Fatalf("expected listener %d, have %d", i, len(m.listeners))
	}
	return m.listeners[i]
}

func (m *mockCapability) startCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

type mockClient struct {
	mu          sync.Mutex
	calls       []string
	resp        analysis.Response
	err         error
	block       chan struct{}
	blockFirst  bool
	ctxCanceled bool
}

func (m *mockClient) Process(ctx context.Context, transcript string) (analysis.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, transcript)
	first := len(m.calls) == 1
	m.mu.Unlock()
	if m.block != nil && (!m.blockFirst || first) {
		select {
		case <-m.block:
		case <-ctx.Done():
			m.mu.Lock()
			m.ctxCanceled = true
			m.mu.Unlock()
			return analysis.Response{}, ctx.Err()
		}
	}
	return m.resp, m.err
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func finalResult(text string) speech.Result {
	return speech.Result{IsFinal: true, Alternatives: []speech.Alternative{{Transcript: text, Confidence: 0.9}}}
}

func newTestController(capability speech.Capability, client analysis.Client) *Controller {
	return NewController(capability, client, speech.DefaultRecognitionConfig("hi-IN"))
}

func TestController_AccumulatesFinalSegments(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	var observed []State
	c.OnChange(func(s State) { observed = append(observed, s) })

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := capability.listener(t, 0)
	l.OnResult(finalResult("hello"))
	l.OnResult(speech.Result{IsFinal: false, Alternatives: []speech.Alternative{{Transcript: "wor"}}})
	l.OnResult(speech.Result{IsFinal: true})
	l.OnResult(finalResult("world"))

	if got := c.Snapshot().Transcript; got != "hello world" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if last := observed[len(observed)-1]; last.Transcript != "hello world" {
		t.Fatalf("observer did not see latest transcript: %+v", last)
	}
}

func TestController_PassesRecognitionConfig(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	_ = c.Start(context.Background())
	cfg := capability.configs[0]
	if cfg.Language != "hi-IN" || !cfg.Continuous || cfg.InterimResults || cfg.MaxAlternatives != 1 {
		t.Fatalf("unexpected recognition config: %+v", cfg)
	}
}

func TestController_StartWhileArmedIsNoop(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	_ = c.Start(context.Background())
	_ = c.Start(context.Background())
	if capability.startCount() != 1 {
		t.Fatalf("expected one armed session, got %d", capability.startCount())
	}
}

func TestController_StopWhileDisarmedIsNoop(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	if err := c.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capability.stopCalls != 0 {
		t.Fatalf("expected no stop call, got %d", capability.stopCalls)
	}
}

func TestController_ToggleTwiceRestoresStateWithoutDuplicates(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	ctx := context.Background()

	_ = c.Start(ctx)
	first := capability.listener(t, 0)
	first.OnResult(finalResult("hello"))

	before := c.Snapshot()
	if err := c.Toggle(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Snapshot().Listening {
		t.Fatal("expected disarmed after first toggle")
	}
	first.OnResult(finalResult("late"))
	if err := c.Toggle(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := c.Snapshot()
	if after != before {
		t.Fatalf("expected %+v after two toggles, got %+v", before, after)
	}
	first.OnResult(finalResult("stale"))
	second := capability.listener(t, 1)
	second.OnResult(finalResult("world"))
	if got := c.Snapshot().Transcript; got != "hello world" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestController_RecognitionErrorStopsSession(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	_ = c.Start(context.Background())
	l := capability.listener(t, 0)

	l.OnError(errors.New("not-allowed"))
	s := c.Snapshot()
	if s.Listening || s.LastError == "" {
		t.Fatalf("expected stopped session with error, got %+v", s)
	}
	l.OnResult(finalResult("after error"))
	if c.Snapshot().Transcript != "" {
		t.Fatal("results after an error must be ignored")
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("expected manual restart to work, got %v", err)
	}
	if capability.startCount() != 2 {
		t.Fatalf("expected a second session, got %d", capability.startCount())
	}
}

func TestController_EndEventDisarms(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	_ = c.Start(context.Background())
	capability.listener(t, 0).OnEnd()
	if c.Snapshot().Listening {
		t.Fatal("expected end event to disarm the session")
	}
}

func TestController_UnavailableReportedOnceAndDisabled(t *testing.T) {
	c := newTestController(nil, &mockClient{})
	changes := 0
	c.OnChange(func(State) { changes++ })

	if err := c.Start(context.Background()); !errors.Is(err, speech.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, speech.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if changes != 1 {
		t.Fatalf("expected a single report, got %d", changes)
	}
	s := c.Snapshot()
	if s.Available || s.Listening {
		t.Fatalf("expected disabled flow, got %+v", s)
	}
}

func TestController_CapabilityStartFailure(t *testing.T) {
	capability := &mockCapability{startErr: speech.ErrUnavailable}
	c := newTestController(capability, &mockClient{})
	if err := c.Start(context.Background()); !errors.Is(err, speech.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if c.Snapshot().Available {
		t.Fatal("expected flow to be disabled")
	}

	capability = &mockCapability{startErr: errors.New("audio-capture")}
	c = newTestController(capability, &mockClient{})
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	s := c.Snapshot()
	if s.Listening || !s.Available || s.LastError == "" {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestController_SubmitBlankNeverCallsNetwork(t *testing.T) {
	client := &mockClient{}
	c := newTestController(&mockCapability{}, client)
	for _, text := range []string{"", " ", "\t\n  "} {
		c.SetTranscript(text)
		if _, err := c.Submit(context.Background()); !errors.Is(err, ErrEmptyTranscript) {
			t.Fatalf("expected empty transcript error for %q, got %v", text, err)
		}
	}
	if client.callCount() != 0 {
		t.Fatalf("expected no network calls, got %d", client.callCount())
	}
}

func TestController_SubmitDisplaysOutcome(t *testing.T) {
	cases := []struct {
		name string
		resp analysis.Response
		err  error
		want string
	}{
		{name: "result", resp: analysis.ResultResponse("X"), want: "X"},
		{name: "error", resp: analysis.ErrorResponse("Y"), want: "Error: Y"},
		{name: "network", err: errors.New("connection refused"), want: "Error connecting to server"},
		{name: "empty body", resp: analysis.Response{}, want: "Error connecting to server"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &mockClient{resp: tc.resp, err: tc.err}
			c := newTestController(&mockCapability{}, client)
			c.SetTranscript("my speech")
			got, err := c.Submit(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want || c.Snapshot().Analysis != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if client.callCount() != 1 || client.calls[0] != "my speech" {
				t.Fatalf("expected exactly one request with the transcript, got %v", client.calls)
			}
			if c.Snapshot().Submitting {
				t.Fatal("expected submission to be finished")
			}
		})
	}
}

func TestController_NewerSubmissionSupersedesInFlight(t *testing.T) {
	client := &mockClient{resp: analysis.ResultResponse("fresh"), block: make(chan struct{}), blockFirst: true}
	c := newTestController(&mockCapability{}, client)
	c.SetTranscript("first attempt")

	type outcome struct {
		text string
		err  error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		text, err := c.Submit(context.Background())
		firstDone <- outcome{text, err}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for client.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first submission never reached the client")
		}
		time.Sleep(time.Millisecond)
	}

	c.SetTranscript("second attempt")
	text, err := c.Submit(context.Background())
	if err != nil || text != "fresh" {
		t.Fatalf("unexpected second outcome: %q, %v", text, err)
	}

	first := <-firstDone
	if !errors.Is(first.err, ErrSuperseded) {
		t.Fatalf("expected superseded error, got %v", first.err)
	}
	if c.Snapshot().Analysis != "fresh" {
		t.Fatalf("unexpected analysis: %q", c.Snapshot().Analysis)
	}
	client.mu.Lock()
	canceled := client.ctxCanceled
	client.mu.Unlock()
	if !canceled {
		t.Fatal("expected the in-flight request context to be canceled")
	}
}

func TestController_CloseAbandonsInFlightSubmission(t *testing.T) {
	client := &mockClient{resp: analysis.ResultResponse("late"), block: make(chan struct{})}
	c := newTestController(&mockCapability{}, client)
	c.SetTranscript("closing time")

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := c.Submit(context.Background())
		done <- outcome{text, err}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for client.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("submission never reached the client")
		}
		time.Sleep(time.Millisecond)
	}
	_ = c.Close()

	select {
	case got := <-done:
		if !errors.Is(got.err, ErrSuperseded) || got.text != "" {
			t.Fatalf("expected abandoned submission, got %q, %v", got.text, got.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not return after close")
	}
	if a := c.Snapshot().Analysis; a != "" {
		t.Fatalf("abandoned submission must not set analysis, got %q", a)
	}
}

func TestController_ResetStopsAndClears(t *testing.T) {
	capability := &mockCapability{}
	c := newTestController(capability, &mockClient{})
	_ = c.Start(context.Background())
	capability.listener(t, 0).OnResult(finalResult("hello"))

	if err := c.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := c.Snapshot()
	if s.Listening || s.Transcript != "" {
		t.Fatalf("unexpected state after reset: %+v", s)
	}
	if capability.stopCalls != 1 {
		t.Fatalf("expected one stop call, got %d", capability.stopCalls)
	}
}
