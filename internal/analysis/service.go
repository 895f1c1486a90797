package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/lucidia/internal/repository"
	"github.com/google/uuid"
)

var ErrEmptyTranscript = errors.New("transcript is empty")

const sideEffectTimeout = 15 * time.Second

type Notice struct {
	SubmissionID string
	Transcript   string
	Result       string
	Error        string
	SubmittedAt  time.Time
}

type Notifier interface {
	NotifyAnalysis(ctx context.Context, notice Notice) error
}

type Recorder interface {
	RecordAnalysis(ctx context.Context, analyzer string, succeeded bool, elapsed time.Duration)
}

type Service struct {
	analyzer     Analyzer
	analyzerName string
	repo         repository.Repository
	notifier     Notifier
	recorder     Recorder
	now          func() time.Time
	newID        func() string

	pending sync.WaitGroup
}

func NewService(analyzer Analyzer, analyzerName string, repo repository.Repository, notifier Notifier, recorder Recorder) *Service {
	if repo == nil {
		repo = repository.Noop{}
	}
	return &Service{
		analyzer:     analyzer,
		analyzerName: analyzerName,
		repo:         repo,
		notifier:     notifier,
		recorder:     recorder,
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
	}
}

// Process analyzes one transcript. Analyzer failures become an error response;
// history and notification failures are only logged. History and notices do not
// depend on the caller's context, and the notice is sent in the background.
func (s *Service) Process(ctx context.Context, transcript string) Response {
	if strings.TrimSpace(transcript) == "" {
		return ErrorResponse(ErrEmptyTranscript.Error())
	}
	id := s.newID()
	startedAt := s.now()
	slog.Info("analysis requested", "submission_id", id, "analyzer", s.analyzerName, "transcript_chars", len(transcript))

	text, err := s.analyzer.Analyze(ctx, transcript)
	elapsed := s.now().Sub(startedAt)
	text = strings.TrimSpace(text)

	var resp Response
	notice := Notice{SubmissionID: id, Transcript: transcript, SubmittedAt: startedAt}
	input := repository.InsertSubmissionInput{
		ID:          id,
		Transcript:  transcript,
		Analyzer:    s.analyzerName,
		DurationMS:  elapsed.Milliseconds(),
		SubmittedAt: startedAt,
	}
	if err != nil {
		slog.Error("analysis failed", "error", err, "submission_id", id, "analyzer", s.analyzerName)
		resp = ErrorResponse(err.Error())
		notice.Error = err.Error()
		input.Error = err.Error()
		input.Status = repository.SubmissionStatusFailed
	} else {
		slog.Info("analysis completed", "submission_id", id, "elapsed_ms", elapsed.Milliseconds(), "result_chars", len(text))
		resp = ResultResponse(text)
		notice.Result = text
		input.Result = text
		input.Status = repository.SubmissionStatusSucceeded
	}

	if s.recorder != nil {
		s.recorder.RecordAnalysis(ctx, s.analyzerName, err == nil, elapsed)
	}
	s.recordSubmission(context.WithoutCancel(ctx), input)
	if s.notifier != nil {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			s.publishNotice(context.WithoutCancel(ctx), notice)
		}()
	}
	return resp
}

func (s *Service) recordSubmission(ctx context.Context, input repository.InsertSubmissionInput) {
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.repo.InsertSubmission(ctx, input); err != nil {
		slog.Error("failed to record submission", "error", err, "submission_id", input.ID)
	}
}

func (s *Service) publishNotice(ctx context.Context, notice Notice) {
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.notifier.NotifyAnalysis(ctx, notice); err != nil {
		slog.Error("failed to publish analysis notice", "error", err, "submission_id", notice.SubmissionID)
	}
}

// Wait blocks until background notices have been sent.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) RecentSubmissions(ctx context.Context, limit int) ([]repository.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListRecentSubmissions(ctx, limit)
}
