package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, status, ticket_text, emotion, summary, topic, urgency_score, error_message, created_at`

// Create inserts a new PENDING analysis and returns it with its assigned id.
func (r *PGRepo) Create(ctx context.Context, ticketText string) (Analysis, error) {
	const query = `
INSERT INTO analyses (status, ticket_text)
VALUES ($1, $2)
RETURNING id, created_at`

	a := Analysis{
		Status:     StatusPending,
		TicketText: ticketText,
	}
	err := r.DB.QueryRowContext(ctx, query, StatusPending, ticketText).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return Analysis{}, err
	}
	return a, nil
}

// GetByID returns an analysis by id.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`

	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// List returns all analyses ordered newest-first.
func (r *PGRepo) List(ctx context.Context) ([]Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
ORDER BY created_at DESC, id DESC`

	return r.queryAnalyses(ctx, query)
}

// ListPending returns PENDING analyses oldest-first so recovery preserves
// submission order.
func (r *PGRepo) ListPending(ctx context.Context) ([]Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE status = 'PENDING'
ORDER BY created_at ASC, id ASC`

	return r.queryAnalyses(ctx, query)
}

// ListCompleted returns COMPLETE analyses newest-first, optionally restricted
// to urgency_score >= minUrgency when minUrgency > 0.
func (r *PGRepo) ListCompleted(ctx context.Context, minUrgency int) ([]Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE status = 'COMPLETE' AND ($1 <= 0 OR urgency_score >= $1)
ORDER BY created_at DESC, id DESC`

	return r.queryAnalyses(ctx, query, minUrgency)
}

// UpdateComplete transitions a PENDING record to COMPLETE. Missing or
// already-terminal records are left untouched without error.
func (r *PGRepo) UpdateComplete(ctx context.Context, id int64, result Result) error {
	const query = `
UPDATE analyses
SET status = 'COMPLETE',
    emotion = $1,
    summary = $2,
    topic = $3,
    urgency_score = $4
WHERE id = $5 AND status = 'PENDING'`

	_, err := r.DB.ExecContext(ctx, query, result.Emotion, result.Summary, result.Topic, result.UrgencyScore, id)
	return err
}

// UpdateFailed transitions a PENDING record to FAILED. Missing or
// already-terminal records are left untouched without error.
func (r *PGRepo) UpdateFailed(ctx context.Context, id int64, errorMessage string) error {
	const query = `
UPDATE analyses
SET status = 'FAILED',
    error_message = $1
WHERE id = $2 AND status = 'PENDING'`

	_, err := r.DB.ExecContext(ctx, query, errorMessage, id)
	return err
}

// Delete removes a record by id, reporting whether it existed.
func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll removes every record.
func (r *PGRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM analyses`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAlerts removes COMPLETE records with urgency_score >= threshold.
// PENDING and FAILED records are never touched.
func (r *PGRepo) DeleteAlerts(ctx context.Context, threshold int) (int64, error) {
	const query = `
DELETE FROM analyses
WHERE status = 'COMPLETE' AND urgency_score >= $1`

	res, err := r.DB.ExecContext(ctx, query, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepo) queryAnalyses(ctx context.Context, query string, args ...any) ([]Analysis, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var emotion sql.NullString
	var summary sql.NullString
	var topic sql.NullString
	var urgency sql.NullInt64
	var errorMessage sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.Status,
		&a.TicketText,
		&emotion,
		&summary,
		&topic,
		&urgency,
		&errorMessage,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}

	if a.Status == StatusComplete && emotion.Valid && summary.Valid && topic.Valid && urgency.Valid {
		a.Result = &Result{
			Emotion:      emotion.String,
			Summary:      summary.String,
			Topic:        topic.String,
			UrgencyScore: int(urgency.Int64),
		}
	}
	if errorMessage.Valid {
		a.ErrorMessage = errorMessage.String
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
