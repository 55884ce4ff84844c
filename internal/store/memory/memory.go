// Package memory keeps documents in process memory. Documents go through the
// same bson codec the mongo adapter uses, so field names and value types
// match what a real database would hold.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

type Store struct {
	tasks    *collection[models.Task]
	projects *collection[models.Project]
}

func New() *Store {
	return &Store{
		tasks:    newCollection[models.Task](),
		projects: newCollection[models.Project](),
	}
}

func (s *Store) Tasks() store.Collection[models.Task] {
	return s.tasks
}

func (s *Store) Projects() store.Collection[models.Project] {
	return s.projects
}

// WithTransaction calls fn directly. Writes made before fn fails stay applied.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}

type collection[T any] struct {
	mu   sync.RWMutex
	docs []bson.M
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{}
}

func (c *collection[T]) InsertOne(ctx context.Context, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := toDocument(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.docs {
		if reflect.DeepEqual(existing["id"], m["id"]) {
			return fmt.Errorf("%w: %v", store.ErrDuplicateID, m["id"])
		}
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *collection[T]) FindOne(ctx context.Context, filter store.Filter) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.docs {
		if matches(m, f) {
			doc := new(T)
			if err = fromDocument(m, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
	}
	return nil, store.ErrNotFound
}

func (c *collection[T]) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	matched := make([]bson.M, 0)
	for _, m := range c.docs {
		if matches(m, f) {
			matched = append(matched, m)
		}
	}
	c.mu.RUnlock()

	if opts.SortBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			order := compare(matched[i][opts.SortBy], matched[j][opts.SortBy])
			if opts.Descending {
				return order > 0
			}
			return order < 0
		})
	}

	if limit := opts.EffectiveLimit(); int64(len(matched)) > limit {
		matched = matched[:limit]
	}

	docs := make([]T, len(matched))
	for i, m := range matched {
		if err = fromDocument(m, &docs[i]); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (c *collection[T]) UpdateOne(ctx context.Context, filter store.Filter, fields store.Fields) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := normalizeFilter(filter)
	if err != nil {
		return 0, err
	}
	set, err := toDocument(map[string]any(fields))
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, m := range c.docs {
		if !matches(m, f) {
			continue
		}

		// Replace the map instead of mutating it, readers may still hold it.
		updated := make(bson.M, len(m)+len(set))
		for k, v := range m {
			updated[k] = v
		}
		for k, v := range set {
			updated[k] = v
		}
		c.docs[i] = updated
		return 1, nil
	}
	return 0, nil
}

func (c *collection[T]) DeleteOne(ctx context.Context, filter store.Filter) (int64, error) {
	return c.delete(ctx, filter, 1)
}

func (c *collection[T]) DeleteMany(ctx context.Context, filter store.Filter) (int64, error) {
	return c.delete(ctx, filter, -1)
}

func (c *collection[T]) delete(ctx context.Context, filter store.Filter, limit int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := normalizeFilter(filter)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	kept := make([]bson.M, 0, len(c.docs))
	for _, m := range c.docs {
		if (limit < 0 || deleted < int64(limit)) && matches(m, f) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	c.docs = kept
	return deleted, nil
}

func (c *collection[T]) Count(ctx context.Context, filter store.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := normalizeFilter(filter)
	if err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, m := range c.docs {
		if matches(m, f) {
			n++
		}
	}
	return n, nil
}

func (c *collection[T]) Distinct(ctx context.Context, field string, filter store.Filter) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	values := make([]any, 0)
	for _, m := range c.docs {
		v, ok := m[field]
		if !ok || !matches(m, f) {
			continue
		}

		seen := false
		for _, existing := range values {
			if reflect.DeepEqual(existing, v) {
				seen = true
				break
			}
		}
		if !seen {
			values = append(values, v)
		}
	}
	return values, nil
}

// condition is a normalized filter entry.
type condition struct {
	value  any
	negate bool
}

func normalizeFilter(filter store.Filter) (map[string]condition, error) {
	f := make(map[string]condition, len(filter))
	for k, v := range filter {
		cond := condition{value: v}
		if ne, ok := v.(store.NotEqual); ok {
			cond = condition{value: ne.Value, negate: true}
		}

		value, err := normalizeValue(cond.value)
		if err != nil {
			return nil, fmt.Errorf("filter on %s: %w", k, err)
		}
		cond.value = value
		f[k] = cond
	}
	return f, nil
}

func matches(m bson.M, f map[string]condition) bool {
	for k, cond := range f {
		if reflect.DeepEqual(m[k], cond.value) == cond.negate {
			return false
		}
	}
	return true
}

// normalizeValue round-trips v through bson so that it compares equal to
// stored values, e.g. time.Time becomes primitive.DateTime.
func normalizeValue(v any) (any, error) {
	m, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	var m bson.M
	err = bson.Unmarshal(raw, &m)
	if err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return m, nil
}

func fromDocument(m bson.M, v any) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	err = bson.Unmarshal(raw, v)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// compare orders the scalar values bson produces. Nil sorts first.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int32:
		if bv, ok := b.(int32); ok {
			return cmp.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

