package analyses

import "context"

// Repo defines persistence operations for analyses.
//
// UpdateComplete and UpdateFailed are silent no-ops when the target record is
// missing or already terminal, so callers tolerate races with concurrent
// deletes and duplicate job deliveries.
type Repo interface {
	Create(ctx context.Context, ticketText string) (Analysis, error)
	GetByID(ctx context.Context, id int64) (Analysis, error)
	List(ctx context.Context) ([]Analysis, error)
	ListPending(ctx context.Context) ([]Analysis, error)
	ListCompleted(ctx context.Context, minUrgency int) ([]Analysis, error)
	UpdateComplete(ctx context.Context, id int64, result Result) error
	UpdateFailed(ctx context.Context, id int64, errorMessage string) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteAlerts(ctx context.Context, threshold int) (int64, error)
}
