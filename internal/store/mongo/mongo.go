// Package mongo implements the document store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

type Options struct {
	URL            string
	Database       string
	ConnectTimeout time.Duration
	// Transactions makes WithTransaction use driver sessions. The server
	// must be a replica set member or a mongos.
	Transactions bool
}

type Store struct {
	client       *mongo.Client
	database     *mongo.Database
	transactions bool
	tasks        *collection[models.Task]
	projects     *collection[models.Project]
}

func Connect(ctx context.Context, opts Options) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URL).
		SetConnectTimeout(opts.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	return New(client, opts.Database, opts.Transactions), nil
}

func New(client *mongo.Client, database string, transactions bool) *Store {
	db := client.Database(database)
	return &Store{
		client:       client,
		database:     db,
		transactions: transactions,
		tasks:        &collection[models.Task]{coll: db.Collection(store.CollectionTasks)},
		projects:     &collection[models.Project]{coll: db.Collection(store.CollectionProjects)},
	}
}

func (s *Store) Tasks() store.Collection[models.Task] {
	return s.tasks
}

func (s *Store) Projects() store.Collection[models.Project] {
	return s.projects
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.database.Drop(ctx)
}

// EnsureIndexes creates the indexes the API queries rely on. Creating an
// index that already exists is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	uniqueID := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	byCreatedAt := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}

	_, err := s.projects.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{uniqueID, byCreatedAt})
	if err != nil {
		return fmt.Errorf("create project indexes: %w", err)
	}

	_, err = s.tasks.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		uniqueID,
		byCreatedAt,
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

type collection[T any] struct {
	coll *mongo.Collection
}

func (c *collection[T]) InsertOne(ctx context.Context, doc *T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", store.ErrDuplicateID, err)
		}
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection[T]) FindOne(ctx context.Context, filter store.Filter) (*T, error) {
	doc := new(T)
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find one in %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *collection[T]) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]T, error) {
	findOpts := options.Find().SetLimit(opts.EffectiveLimit())
	if opts.SortBy != "" {
		dir := 1
		if opts.Descending {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortBy, Value: dir}})
	}

	cursor, err := c.coll.Find(ctx, toBSON(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	docs := make([]T, 0)
	err = cursor.All(ctx, &docs)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *collection[T]) UpdateOne(ctx context.Context, filter store.Filter, fields store.Fields) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("update %s: no fields to set", c.coll.Name())
	}

	result, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": bson.M(fields)})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return result.MatchedCount, nil
}

func (c *collection[T]) DeleteOne(ctx context.Context, filter store.Filter) (int64, error) {
	result, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	return result.DeletedCount, nil
}

func (c *collection[T]) DeleteMany(ctx context.Context, filter store.Filter) (int64, error) {
	result, err := c.coll.DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("delete many from %s: %w", c.coll.Name(), err)
	}
	return result.DeletedCount, nil
}

func (c *collection[T]) Count(ctx context.Context, filter store.Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func (c *collection[T]) Distinct(ctx context.Context, field string, filter store.Filter) ([]any, error) {
	values, err := c.coll.Distinct(ctx, field, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("distinct %s in %s: %w", field, c.coll.Name(), err)
	}
	return values, nil
}

func toBSON(filter store.Filter) bson.M {
	m := make(bson.M, len(filter))
	for k, v := range filter {
		if ne, ok := v.(store.NotEqual); ok {
			m[k] = bson.M{"$ne": ne.Value}
			continue
		}
		m[k] = v
	}
	return m
}
