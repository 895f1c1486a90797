package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"cloud.google.com/go/auth/credentials"
	speechapi "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/lucidia/internal/audio"
	"github.com/foxseedlab/lucidia/internal/speech"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	speechAPIEndpointPort = 443
	audioChunksPerSecond  = 10
)

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Language        string
	Location        string
	Model           string
}

type recognizeStream interface {
	Send(req *speechpb.StreamingRecognizeRequest) error
	Recv() (*speechpb.StreamingRecognizeResponse, error)
	CloseSend() error
}

type recognizerConn interface {
	Open(ctx context.Context) (recognizeStream, error)
	Close() error
}

type connector func(ctx context.Context) (recognizerConn, error)

// CloudSpeechCapability streams audio from a source to Cloud Speech-to-Text v2
// and reports recognized utterances to the listener.
type CloudSpeechCapability struct {
	projectID       string
	defaultLanguage string
	location        string
	model           string
	openSource      audio.SourceFactory
	connect         connector

	mu     sync.Mutex
	active *listenSession
}

func NewCloudSpeechCapability(cfg CloudSpeechConfig, openSource audio.SourceFactory) speech.Capability {
	location := strings.TrimSpace(cfg.Location)
	credentialsJSON := cfg.CredentialsJSON
	return &CloudSpeechCapability{
		projectID:       cfg.ProjectID,
		defaultLanguage: cfg.Language,
		location:        location,
		model:           strings.TrimSpace(cfg.Model),
		openSource:      openSource,
		connect: func(ctx context.Context) (recognizerConn, error) {
			return dialCloudSpeech(ctx, credentialsJSON, location)
		},
	}
}

type cloudConn struct {
	client *speechapi.Client
}

func dialCloudSpeech(ctx context.Context, credentialsJSON, location string) (recognizerConn, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", location, speechAPIEndpointPort)))
	}
	client, err := speechapi.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &cloudConn{client: client}, nil
}

func (c *cloudConn) Open(ctx context.Context) (recognizeStream, error) {
	return c.client.StreamingRecognize(ctx)
}

func (c *cloudConn) Close() error {
	return c.client.Close()
}

// StartListening replaces any running session.
func (t *CloudSpeechCapability) StartListening(ctx context.Context, cfg speech.RecognitionConfig, listener speech.Listener) error {
	if cfg.Language == "" {
		cfg.Language = t.defaultLanguage
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = 1
	}
	t.mu.Lock()
	prev := t.active
	t.active = nil
	t.mu.Unlock()
	if prev != nil {
		prev.stop()
	}

	src, err := t.openSource()
	if err != nil {
		return fmt.Errorf("open audio source: %w", err)
	}
	conn, err := t.connect(ctx)
	if err != nil {
		_ = src.Close()
		return err
	}

	sessCtx, cancel := context.WithCancel(ctx)
	s := &listenSession{
		ctx:        sessCtx,
		cancel:     cancel,
		cfg:        cfg,
		listener:   listener,
		conn:       conn,
		source:     src,
		recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location),
		model:      t.model,
	}
	s.onDone = func() {
		t.mu.Lock()
		if t.active == s {
			t.active = nil
		}
		t.mu.Unlock()
	}
	stream, err := s.openStream()
	if err != nil {
		cancel()
		_ = src.Close()
		_ = conn.Close()
		return err
	}
	s.stream = stream
	slog.Info("cloud speech stream initialized", "location", t.location, "language", cfg.Language, "model", t.model)

	t.mu.Lock()
	prev = t.active
	t.active = s
	t.mu.Unlock()
	if prev != nil {
		prev.stop()
	}
	s.startReceiver(stream)
	go s.pump()
	return nil
}

func (t *CloudSpeechCapability) Stop() error {
	t.mu.Lock()
	s := t.active
	t.active = nil
	t.mu.Unlock()
	if s == nil {
		return speech.ErrNotListening
	}
	s.stop()
	return nil
}

type listenSession struct {
	ctx        context.Context
	cancel     context.CancelFunc
	cfg        speech.RecognitionConfig
	listener   speech.Listener
	conn       recognizerConn
	source     audio.Source
	recognizer string
	model      string
	onDone     func()

	mu        sync.Mutex
	stream    recognizeStream
	inputDone bool

	stopped  atomic.Bool
	finished sync.Once
}

func (s *listenSession) streamingConfig() *speechpb.StreamingRecognizeRequest {
	format := s.source.Format()
	return &speechpb.StreamingRecognizeRequest{
		Recognizer: s.recognizer,
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Model:         s.model,
					LanguageCodes: []string{s.cfg.Language},
					DecodingConfig: &speechpb.RecognitionConfig_ExplicitDecodingConfig{
						ExplicitDecodingConfig: &speechpb.ExplicitDecodingConfig{
							Encoding:          speechpb.ExplicitDecodingConfig_LINEAR16,
							SampleRateHertz:   int32(format.SampleRate),
							AudioChannelCount: int32(format.Channels),
						},
					},
					Features: &speechpb.RecognitionFeatures{
						EnableAutomaticPunctuation: true,
						MaxAlternatives:            int32(s.cfg.MaxAlternatives),
					},
				},
				StreamingFeatures: &speechpb.StreamingRecognitionFeatures{
					InterimResults: s.cfg.InterimResults,
				},
			},
		},
	}
}

func (s *listenSession) openStream() (recognizeStream, error) {
	stream, err := s.conn.Open(s.ctx)
	if err != nil {
		return nil, err
	}
	if err := stream.Send(s.streamingConfig()); err != nil {
		_ = stream.CloseSend()
		return nil, err
	}
	return stream, nil
}

func (s *listenSession) pump() {
	chunk := make([]byte, max(s.source.Format().BytesPerSecond()/audioChunksPerSecond, 2))
	for {
		if s.ctx.Err() != nil {
			return
		}
		n, err := s.source.Read(chunk)
		if n > 0 {
			if sendErr := s.send(chunk[:n]); sendErr != nil {
				s.finish(sendErr)
				return
			}
		}
		if errors.Is(err, io.EOF) {
			s.endInput()
			return
		}
		if err != nil {
			s.finish(fmt.Errorf("read audio: %w", err))
			return
		}
	}
}

func (s *listenSession) send(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return nil
	}
	req := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_Audio{
			Audio: append([]byte(nil), pcm...),
		},
	}
	if err := s.stream.Send(req); err != nil {
		if !isReconnectableStreamError(err) {
			return err
		}
		slog.Warn("speech send failed with reconnectable error; reconnecting", "error", err)
		if err := s.reconnectLocked(); err != nil {
			return fmt.Errorf("reconnect stream: %w", err)
		}
		return s.stream.Send(req)
	}
	return nil
}

func (s *listenSession) reconnectLocked() error {
	_ = s.stream.CloseSend()
	next, err := s.openStream()
	if err != nil {
		slog.Error("failed to reconnect speech stream", "error", err)
		return err
	}
	s.stream = next
	s.startReceiver(next)
	slog.Info("speech stream reconnected")
	return nil
}

// endInput half-closes the stream; the receiver finishes the session once the
// service has flushed its last results.
func (s *listenSession) endInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputDone = true
	if err := s.stream.CloseSend(); err != nil {
		slog.Warn("failed to half-close speech stream", "error", err)
	}
}

func (s *listenSession) isCurrent(stream recognizeStream) (current bool, inputDone bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream == stream, s.inputDone
}

func (s *listenSession) startReceiver(stream recognizeStream) {
	go func() {
		for {
			resp, err := stream.Recv()
			if err != nil {
				s.handleRecvError(stream, err)
				return
			}
			for _, result := range resp.GetResults() {
				if !result.GetIsFinal() && !s.cfg.InterimResults {
					continue
				}
				r, ok := s.toResult(result)
				if !ok {
					continue
				}
				if s.stopped.Load() {
					return
				}
				s.listener.OnResult(r)
				if r.IsFinal && !s.cfg.Continuous {
					s.finish(nil)
					return
				}
			}
		}
	}()
}

func (s *listenSession) handleRecvError(stream recognizeStream, err error) {
	if s.ctx.Err() != nil || status.Code(err) == codes.Canceled {
		slog.Info("speech receive loop stopped", "reason", err.Error())
		return
	}
	current, inputDone := s.isCurrent(stream)
	if !current {
		return
	}
	if errors.Is(err, io.EOF) && inputDone {
		s.finish(nil)
		return
	}
	if isReconnectableStreamError(err) && !inputDone {
		slog.Warn("speech receive loop ended with reconnectable abort", "error", err)
		return
	}
	s.finish(err)
}

func (s *listenSession) toResult(result *speechpb.StreamingRecognitionResult) (speech.Result, bool) {
	alts := result.GetAlternatives()
	if len(alts) == 0 {
		return speech.Result{}, false
	}
	if len(alts) > s.cfg.MaxAlternatives {
		alts = alts[:s.cfg.MaxAlternatives]
	}
	out := speech.Result{IsFinal: result.GetIsFinal(), Alternatives: make([]speech.Alternative, 0, len(alts))}
	for _, alt := range alts {
		out.Alternatives = append(out.Alternatives, speech.Alternative{
			Transcript: alt.GetTranscript(),
			Confidence: float64(alt.GetConfidence()),
		})
	}
	return out, true
}

func (s *listenSession) stop() {
	s.stopped.Store(true)
	s.finish(nil)
}

// finish tears the session down once. Listener callbacks are skipped when the
// session was stopped by the caller.
func (s *listenSession) finish(err error) {
	s.finished.Do(func() {
		s.cancel()
		s.mu.Lock()
		if s.stream != nil {
			_ = s.stream.CloseSend()
		}
		s.mu.Unlock()
		if closeErr := s.source.Close(); closeErr != nil {
			slog.Warn("failed to close audio source", "error", closeErr)
		}
		if closeErr := s.conn.Close(); closeErr != nil {
			slog.Warn("failed to close speech client", "error", closeErr)
		}
		if s.onDone != nil {
			s.onDone()
		}
		if s.stopped.Load() {
			return
		}
		if err != nil {
			slog.Error("speech session failed", "error", err)
			s.listener.OnError(err)
		}
		s.listener.OnEnd()
	})
}

func isReconnectableStreamError(err error) bool {
	if errors.Is(err, io.EOF) || strings.Contains(strings.ToLower(err.Error()), "eof") {
		return true
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Aborted {
		return false
	}
	msg := strings.ToLower(st.Message())
	return strings.Contains(msg, "max duration of 5 minutes") ||
		strings.Contains(msg, "stream timed out after receiving no more client requests")
}
