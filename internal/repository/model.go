package repository

import "time"

type SubmissionStatus string

const (
	SubmissionStatusSucceeded SubmissionStatus = "succeeded"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

type Submission struct {
	ID          string
	Transcript  string
	Result      string
	Error       string
	Status      SubmissionStatus
	Analyzer    string
	DurationMS  int64
	SubmittedAt time.Time
	CreatedAt   time.Time
}
