package repository

import (
	"context"

	"github.com/foxseedlab/lucidia/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertSubmission(ctx context.Context, input repository.InsertSubmissionInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submissions (id, transcript, result, error, status, analyzer, duration_ms, submitted_at)
		 VALUES ($1, $2, $3, $4, $5::submission_status, $6, $7, $8)`,
		input.ID, input.Transcript, nullable(input.Result), nullable(input.Error),
		string(input.Status), input.Analyzer, input.DurationMS, input.SubmittedAt)
	return err
}

func (r *PostgresRepository) ListRecentSubmissions(ctx context.Context, limit int) ([]repository.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, transcript, result, error, status::text, analyzer, duration_ms, submitted_at, created_at
		 FROM submissions ORDER BY submitted_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []repository.Submission{}
	for rows.Next() {
		var s repository.Submission
		var result, errText *string
		var status string
		if err := rows.Scan(&s.ID, &s.Transcript, &result, &errText, &status, &s.Analyzer, &s.DurationMS, &s.SubmittedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		if result != nil {
			s.Result = *result
		}
		if errText != nil {
			s.Error = *errText
		}
		s.Status = repository.SubmissionStatus(status)
		list = append(list, s)
	}
	return list, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
