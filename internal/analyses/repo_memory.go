package analyses

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
// It backs dev mode without a database and the unit tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[int64]Analysis)}
}

// Create stores a new PENDING analysis with a monotonically assigned id.
func (r *MemoryRepo) Create(ctx context.Context, ticketText string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a := Analysis{
		ID:         r.nextID,
		Status:     StatusPending,
		TicketText: ticketText,
		CreatedAt:  time.Now().UTC(),
	}
	r.byID[a.ID] = a
	return a, nil
}

// GetByID returns an analysis by its id.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// List returns all analyses newest-first.
func (r *MemoryRepo) List(ctx context.Context) ([]Analysis, error) {
	return r.list(ctx, func(Analysis) bool { return true }, true)
}

// ListPending returns PENDING analyses oldest-first.
func (r *MemoryRepo) ListPending(ctx context.Context) ([]Analysis, error) {
	return r.list(ctx, func(a Analysis) bool { return a.Status == StatusPending }, false)
}

// ListCompleted returns COMPLETE analyses newest-first, optionally filtered by
// minimum urgency.
func (r *MemoryRepo) ListCompleted(ctx context.Context, minUrgency int) ([]Analysis, error) {
	return r.list(ctx, func(a Analysis) bool {
		if a.Status != StatusComplete || a.Result == nil {
			return false
		}
		return minUrgency <= 0 || a.Result.UrgencyScore >= minUrgency
	}, true)
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Analysis) bool, newestFirst bool) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Analysis, 0, len(r.byID))
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateComplete transitions a PENDING record to COMPLETE; a no-op otherwise.
func (r *MemoryRepo) UpdateComplete(ctx context.Context, id int64, result Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.Status != StatusPending {
		return nil
	}
	res := result
	a.Status = StatusComplete
	a.Result = &res
	r.byID[id] = a
	return nil
}

// UpdateFailed transitions a PENDING record to FAILED; a no-op otherwise.
func (r *MemoryRepo) UpdateFailed(ctx context.Context, id int64, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.Status != StatusPending {
		return nil
	}
	a.Status = StatusFailed
	a.ErrorMessage = errorMessage
	r.byID[id] = a
	return nil
}

// Delete removes a record, reporting whether it existed.
func (r *MemoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// DeleteAll removes every record. Ids are never reused.
func (r *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.byID))
	r.byID = make(map[int64]Analysis)
	return n, nil
}

// DeleteAlerts removes COMPLETE records with urgency >= threshold.
func (r *MemoryRepo) DeleteAlerts(ctx context.Context, threshold int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.byID {
		if a.Status == StatusComplete && a.Result != nil && a.Result.UrgencyScore >= threshold {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

var _ Repo = (*MemoryRepo)(nil)
