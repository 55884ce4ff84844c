// Package postgres implements the document store on PostgreSQL. Each
// collection is a table whose columns are the document fields.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

var taskColumns = []string{
	"id",
	"title",
	"description",
	"status",
	"priority",
	"due_date",
	"project_id",
	"created_at",
	"updated_at",
}

var projectColumns = []string{
	"id",
	"name",
	"description",
	"color",
	"created_at",
	"updated_at",
}

type Store struct {
	pool     *pgxpool.Pool
	tasks    *table[models.Task]
	projects *table[models.Project]
}

// Connect opens a pool for connURL. It does not wait for the server to answer,
// call Ping for that.
func Connect(ctx context.Context, connURL string, connectTimeout time.Duration) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		useUTCTimestamps(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return New(pool), nil
}

// useUTCTimestamps makes timestamptz values scan in UTC instead of time.Local.
func useUTCTimestamps(m *pgtype.Map) {
	m.RegisterType(&pgtype.Type{
		Name:  "timestamptz",
		OID:   pgtype.TimestamptzOID,
		Codec: &pgtype.TimestamptzCodec{ScanLocation: time.UTC},
	})
}

func New(pool *pgxpool.Pool) *Store {
	s := &Store{pool: pool}
	s.tasks = &table[models.Task]{
		name:    store.CollectionTasks,
		columns: taskColumns,
		q:       s.querier,
		values: func(t *models.Task) []any {
			return []any{
				t.ID,
				t.Title,
				t.Description,
				string(t.Status),
				string(t.Priority),
				t.DueDate,
				t.ProjectID,
				t.CreatedAt,
				t.UpdatedAt,
			}
		},
	}
	s.projects = &table[models.Project]{
		name:    store.CollectionProjects,
		columns: projectColumns,
		q:       s.querier,
		values: func(p *models.Project) []any {
			return []any{
				p.ID,
				p.Name,
				p.Description,
				p.Color,
				p.CreatedAt,
				p.UpdatedAt,
			}
		},
	}
	return s
}

func (s *Store) Tasks() store.Collection[models.Task] {
	return s.tasks
}

func (s *Store) Projects() store.Collection[models.Project] {
	return s.projects
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// Migrate applies the embedded migrations.
func (s *Store) Migrate(ctx context.Context, logger zerolog.Logger) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: logger})

	err := goose.SetDialect("postgres")
	if err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	err = goose.UpContext(ctx, db, "migrations")
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type txKey struct{}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Fatal().Msgf(format, v...)
}
