package repository

import (
	"context"
	"time"
)

type InsertSubmissionInput struct {
	ID          string
	Transcript  string
	Result      string
	Error       string
	Status      SubmissionStatus
	Analyzer    string
	DurationMS  int64
	SubmittedAt time.Time
}

type Repository interface {
	InsertSubmission(ctx context.Context, input InsertSubmissionInput) error
	ListRecentSubmissions(ctx context.Context, limit int) ([]Submission, error)
}

// Noop discards history. It backs the service when no database is configured.
type Noop struct{}

func (Noop) InsertSubmission(_ context.Context, _ InsertSubmissionInput) error {
	return nil
}

func (Noop) ListRecentSubmissions(_ context.Context, _ int) ([]Submission, error) {
	return []Submission{}, nil
}
