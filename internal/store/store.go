// Package store defines the document store contract the services depend on.
//
// A store holds two collections, tasks and projects. Filters are plain
// field equality maps with an optional not-equal condition, enough for every
// query the API issues. Adapters live in the subpackages.
package store

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-todo-board/internal/models"
)

const (
	CollectionTasks    = "tasks"
	CollectionProjects = "projects"
)

// MaxFindLimit caps every Find call.
const MaxFindLimit = 1000

var (
	ErrNotFound    = errors.New("document not found")
	ErrDuplicateID = errors.New("document id already exists")
)

// Filter maps a stored field name to the value it must equal. A nil value
// matches missing and null fields. Wrap a value with Ne to negate it.
type Filter map[string]any

type NotEqual struct {
	Value any
}

func Ne(v any) NotEqual {
	return NotEqual{Value: v}
}

// Fields maps stored field names to their new values.
type Fields map[string]any

type FindOptions struct {
	SortBy     string
	Descending bool
	Limit      int64
}

// EffectiveLimit clamps the limit into (0, MaxFindLimit].
func (o FindOptions) EffectiveLimit() int64 {
	if o.Limit <= 0 || o.Limit > MaxFindLimit {
		return MaxFindLimit
	}
	return o.Limit
}

type Collection[T any] interface {
	// InsertOne stores a new document. It returns ErrDuplicateID if a
	// document with the same id already exists.
	InsertOne(ctx context.Context, doc *T) error

	// FindOne returns the first document matching the filter or ErrNotFound.
	FindOne(ctx context.Context, filter Filter) (*T, error)

	// Find returns at most opts.EffectiveLimit() matching documents ordered
	// by opts.SortBy. The result is never nil.
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error)

	// UpdateOne sets the given fields on the first matching document and
	// returns the number of matched documents. Zero matches is not an error.
	UpdateOne(ctx context.Context, filter Filter, fields Fields) (int64, error)

	DeleteOne(ctx context.Context, filter Filter) (int64, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	// Distinct returns the distinct values of field among matching documents.
	Distinct(ctx context.Context, field string, filter Filter) ([]any, error)
}

type Store interface {
	Tasks() Collection[models.Task]
	Projects() Collection[models.Project]

	// WithTransaction runs fn so that the collection calls made with the
	// context it receives commit or fail together, when the backend can do
	// that. Adapters without multi-document transactions call fn directly.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
