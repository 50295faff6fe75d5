package questionbank

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores bank questions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Question
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Question)}
}

// Add stores the question.
func (r *MemoryRepo) Add(ctx context.Context, q Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[q.ID] = q
	return nil
}

// GetByID returns a question by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.byID[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

// List returns filtered questions, newest first.
func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	questions := make([]Question, 0, len(r.byID))
	for _, q := range r.byID {
		if f.BloomLevel != "" && q.BloomLevel != f.BloomLevel {
			continue
		}
		if f.Subject != "" && q.Subject != f.Subject {
			continue
		}
		questions = append(questions, q)
	}
	r.mu.RUnlock()

	sort.Slice(questions, func(i, j int) bool {
		return questions[i].AddedAt.After(questions[j].AddedAt)
	})

	if f.Offset >= len(questions) {
		return nil, nil
	}
	questions = questions[f.Offset:]
	if f.Limit > 0 && f.Limit < len(questions) {
		questions = questions[:f.Limit]
	}
	return questions, nil
}

// Delete removes a question.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Stats summarizes the bank.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		Total:     len(r.byID),
		ByBloom:   make(map[string]int),
		BySubject: make(map[string]int),
	}
	for _, q := range r.byID {
		if q.BloomLevel != "" {
			stats.ByBloom[q.BloomLevel]++
		}
		if q.Subject != "" {
			stats.BySubject[q.Subject]++
		}
	}
	return stats, nil
}
