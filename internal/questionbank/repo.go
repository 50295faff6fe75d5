package questionbank

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested bank question does not exist.
var ErrNotFound = errors.New("question not found")

// Repo defines persistence operations for the question bank.
type Repo interface {
	Add(ctx context.Context, q Question) error
	GetByID(ctx context.Context, id string) (Question, error)
	List(ctx context.Context, f Filter) ([]Question, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
}
