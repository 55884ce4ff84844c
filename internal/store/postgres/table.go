package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-todo-board/internal/store"
)

// table adapts one SQL table to store.Collection. Field names in filters
// and updates must be column names, anything else is rejected.
type table[T any] struct {
	name    string
	columns []string
	q       func(ctx context.Context) querier
	values  func(*T) []any
}

func (t *table[T]) InsertOne(ctx context.Context, doc *T) error {
	placeholders := make([]string, len(t.columns))
	for i := range placeholders {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		t.name,
		strings.Join(t.columns, ", "),
		strings.Join(placeholders, ", "),
	)
	_, err := t.q(ctx).Exec(ctx, query, t.values(doc)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrDuplicateID, err)
		}
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	return nil
}

func (t *table[T]) FindOne(ctx context.Context, filter store.Filter) (*T, error) {
	var args []any
	where, err := t.where(filter, &args)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", strings.Join(t.columns, ", "), t.name, where)
	rows, err := t.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", t.name, err)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}
	return doc, nil
}

func (t *table[T]) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]T, error) {
	var args []any
	where, err := t.where(filter, &args)
	if err != nil {
		return nil, err
	}

	var orderBy string
	if opts.SortBy != "" {
		if !t.hasColumn(opts.SortBy) {
			return nil, fmt.Errorf("sort %s: unknown field %q", t.name, opts.SortBy)
		}
		dir := "ASC"
		if opts.Descending {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf(" ORDER BY %s %s", opts.SortBy, dir)
	}

	args = append(args, opts.EffectiveLimit())
	query := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT $%d",
		strings.Join(t.columns, ", "), t.name, where, orderBy, len(args),
	)
	rows, err := t.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", t.name, err)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}
	if docs == nil {
		docs = make([]T, 0)
	}
	return docs, nil
}

func (t *table[T]) UpdateOne(ctx context.Context, filter store.Filter, fields store.Fields) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("update %s: no fields to set", t.name)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !t.hasColumn(k) || k == "id" {
			return 0, fmt.Errorf("update %s: field %q cannot be set", t.name, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []any
	set := make([]string, len(keys))
	for i, k := range keys {
		args = append(args, fields[k])
		set[i] = fmt.Sprintf("%s = $%d", k, len(args))
	}

	where, err := t.where(filter, &args)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = (SELECT id FROM %s%s LIMIT 1)",
		t.name, strings.Join(set, ", "), t.name, where,
	)
	tag, err := t.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", t.name, err)
	}
	return tag.RowsAffected(), nil
}

func (t *table[T]) DeleteOne(ctx context.Context, filter store.Filter) (int64, error) {
	var args []any
	where, err := t.where(filter, &args)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = (SELECT id FROM %s%s LIMIT 1)", t.name, t.name, where)
	tag, err := t.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.name, err)
	}
	return tag.RowsAffected(), nil
}

func (t *table[T]) DeleteMany(ctx context.Context, filter store.Filter) (int64, error) {
	var args []any
	where, err := t.where(filter, &args)
	if err != nil {
		return 0, err
	}

	tag, err := t.q(ctx).Exec(ctx, fmt.Sprintf("DELETE FROM %s%s", t.name, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete many from %s: %w", t.name, err)
	}
	return tag.RowsAffected(), nil
}

func (t *table[T]) Count(ctx context.Context, filter store.Filter) (int64, error) {
	var args []any
	where, err := t.where(filter, &args)
	if err != nil {
		return 0, err
	}

	var n int64
	err = t.q(ctx).QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.name, where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return n, nil
}

func (t *table[T]) Distinct(ctx context.Context, field string, filter store.Filter) ([]any, error) {
	if !t.hasColumn(field) {
		return nil, fmt.Errorf("distinct %s: unknown field %q", t.name, field)
	}

	var args []any
	where, err := t.where(filter, &args)
	if err != nil {
		return nil, err
	}

	rows, err := t.q(ctx).Query(ctx, fmt.Sprintf("SELECT DISTINCT %s FROM %s%s", field, t.name, where), args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s in %s: %w", field, t.name, err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[any])
	if err != nil {
		return nil, fmt.Errorf("scan distinct %s: %w", field, err)
	}
	if values == nil {
		values = make([]any, 0)
	}
	return values, nil
}

// where renders filter as a WHERE clause, appending its parameters to args.
// Keys are sorted so that equal filters produce equal SQL.
func (t *table[T]) where(filter store.Filter, args *[]any) (string, error) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		if !t.hasColumn(k) {
			return "", fmt.Errorf("filter %s: unknown field %q", t.name, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, len(keys))
	for i, k := range keys {
		v := filter[k]
		negate := false
		if ne, ok := v.(store.NotEqual); ok {
			v, negate = ne.Value, true
		}

		switch {
		case v == nil && negate:
			conds[i] = k + " IS NOT NULL"
		case v == nil:
			conds[i] = k + " IS NULL"
		case negate:
			// Matches NULL too, like $ne does.
			*args = append(*args, v)
			conds[i] = fmt.Sprintf("%s IS DISTINCT FROM $%d", k, len(*args))
		default:
			*args = append(*args, v)
			conds[i] = fmt.Sprintf("%s = $%d", k, len(*args))
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

func (t *table[T]) hasColumn(name string) bool {
	return slices.Contains(t.columns, name)
}
