package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedback-backend/internal/queue"
	"feedback-backend/internal/shared/metrics"
	"feedback-backend/internal/shared/telemetry"
)

const defaultAlertThreshold = 7

// Enqueuer is the submission side of the job queue.
type Enqueuer interface {
	Enqueue(msg queue.Message) error
}

// Service contains business logic for feedback analyses: submission, the
// asynchronous job lifecycle, queries, deletion, and report export.
type Service struct {
	Repo           Repo
	Classifier     *Classifier
	Queue          Enqueuer
	AlertThreshold int
}

func (s *Service) alertThreshold() int {
	if s.AlertThreshold > 0 {
		return s.AlertThreshold
	}
	return defaultAlertThreshold
}

// Submit persists a PENDING record and schedules its classification. It does
// not validate the text beyond non-emptiness; deeper validation happens in
// the classifier so failures are recorded as FAILED rather than rejected here.
// The PENDING row is written before enqueueing so a full queue or a crash
// leaves a record the startup re-scan can recover.
func (s *Service) Submit(ctx context.Context, text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyText
	}

	analysis, err := s.Repo.Create(ctx, text)
	if err != nil {
		return Analysis{}, err
	}

	if err := s.enqueue(ctx, analysis.ID); err != nil {
		telemetry.Error("analysis.enqueue", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"job_id":     analysis.ID,
			"error":      err.Error(),
		})
		return analysis, err
	}

	telemetry.Info("analysis.submitted", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"job_id":     analysis.ID,
		"text_len":   len(text),
	})
	return analysis, nil
}

// SubmitBatch parses an uploaded batch file and submits each ticket
// independently. Records created before a queue-full error are returned along
// with the error; they stay PENDING and are recovered by the startup re-scan.
func (s *Service) SubmitBatch(ctx context.Context, raw []byte) ([]Analysis, error) {
	tickets, err := ParseBatch(raw)
	if err != nil {
		return nil, err
	}

	out := make([]Analysis, 0, len(tickets))
	for _, text := range tickets {
		analysis, err := s.Submit(ctx, text)
		if err != nil {
			return out, err
		}
		out = append(out, analysis)
	}
	return out, nil
}

func (s *Service) enqueue(ctx context.Context, jobID int64) error {
	if s.Queue == nil {
		return ErrQueueNotConfigured
	}
	return s.Queue.Enqueue(queue.Message{
		JobID:      jobID,
		RequestID:  requestIDFromContext(ctx),
		EnqueuedAt: time.Now().UTC(),
	})
}

// RequeuePending re-enqueues every PENDING record. It runs at startup so jobs
// orphaned by a crash or queue overflow are picked up again.
func (s *Service) RequeuePending(ctx context.Context) error {
	pending, err := s.Repo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	requeued := 0
	for _, a := range pending {
		if err := s.enqueue(ctx, a.ID); err != nil {
			telemetry.Error("analysis.requeue", map[string]any{
				"job_id": a.ID,
				"error":  err.Error(),
			})
			break
		}
		requeued++
	}
	if len(pending) > 0 {
		telemetry.Info("analysis.requeue", map[string]any{
			"pending":  len(pending),
			"requeued": requeued,
		})
	}
	return nil
}

// Get returns an analysis by id.
func (s *Service) Get(ctx context.Context, id int64) (Analysis, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns all analyses newest-first, including PENDING and FAILED ones.
func (s *Service) List(ctx context.Context) ([]Analysis, error) {
	return s.Repo.List(ctx)
}

// Delete removes one record, reporting whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.Repo.Delete(ctx, id)
}

// DeleteAll removes every record.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	return s.Repo.DeleteAll(ctx)
}

// DeleteAlerts removes COMPLETE records at or above the threshold; a
// non-positive threshold falls back to the configured alert threshold.
func (s *Service) DeleteAlerts(ctx context.Context, threshold int) (int64, error) {
	if threshold <= 0 {
		threshold = s.alertThreshold()
	}
	return s.Repo.DeleteAlerts(ctx, threshold)
}

// ExportReport renders all COMPLETE records, restricted to alerts when
// alertsOnly is set, into the plaintext report document.
func (s *Service) ExportReport(ctx context.Context, alertsOnly bool) (string, error) {
	minUrgency := 0
	if alertsOnly {
		minUrgency = s.alertThreshold()
	}
	records, err := s.Repo.ListCompleted(ctx, minUrgency)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", ErrNothingToExport
	}
	return RenderReport(records), nil
}

// ExportSingle renders one COMPLETE record; a missing or non-COMPLETE record
// is reported as not found.
func (s *Service) ExportSingle(ctx context.Context, id int64) (string, error) {
	analysis, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if analysis.Status != StatusComplete {
		return "", ErrNotFound
	}
	return RenderRecord(analysis), nil
}

// Process drives one record from PENDING to a terminal state. A record that
// vanished before processing is tolerated silently, and a record that is
// already terminal (duplicate delivery) is left untouched. Every classifier
// error, and any panic, becomes a FAILED record; nothing is allowed to leave
// a record PENDING once processing has started.
func (s *Service) Process(ctx context.Context, jobID int64) {
	startedAt := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, jobID, fmt.Errorf("panic: %v", r), startedAt)
		}
	}()

	analysis, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return
		}
		s.failAnalysis(ctx, jobID, fmt.Errorf("record lookup: %w", err), startedAt)
		return
	}
	if analysis.Status != StatusPending {
		return
	}

	metrics.IncClassificationStarted()

	result, err := s.Classifier.Classify(ctx, analysis.TicketText)
	if err != nil {
		s.failAnalysis(ctx, jobID, err, startedAt)
		return
	}

	if err := s.Repo.UpdateComplete(ctx, jobID, result); err != nil {
		s.failAnalysis(ctx, jobID, fmt.Errorf("persist result: %w", err), startedAt)
		return
	}

	completedAt := time.Now().UTC()
	metrics.IncClassificationCompleted()
	metrics.ObserveClassificationDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"job_id":            jobID,
		"status":            StatusComplete,
		"status_transition": "PENDING->COMPLETE",
		"urgency_score":     result.UrgencyScore,
		"duration_ms":       durationMs(startedAt, completedAt),
	})
}

func (s *Service) failAnalysis(ctx context.Context, jobID int64, err error, startedAt time.Time) {
	msg := sanitizeError(err)
	// A canceled request context must not block recording the failure.
	if updateErr := s.Repo.UpdateFailed(context.Background(), jobID, msg); updateErr != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"job_id": jobID,
			"error":  updateErr.Error(),
			"cause":  msg,
		})
	}
	completedAt := time.Now().UTC()
	metrics.IncClassificationFailed()
	metrics.ObserveClassificationDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"job_id":            jobID,
		"status":            StatusFailed,
		"status_transition": "PENDING->FAILED",
		"error":             msg,
		"duration_ms":       durationMs(startedAt, completedAt),
	})
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
