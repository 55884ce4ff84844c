package app

import (
	"context"
	"fmt"

	"github.com/adanyl0v/go-todo-board/internal/config"
	"github.com/adanyl0v/go-todo-board/internal/store"
	"github.com/adanyl0v/go-todo-board/internal/store/memory"
	"github.com/adanyl0v/go-todo-board/internal/store/mongo"
	"github.com/adanyl0v/go-todo-board/internal/store/postgres"
)

func MustConnectStore() store.Store {
	cfg := config.Global()

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		return mustConnectMongo(cfg.Mongo)
	case config.StoreDriverPostgres:
		return mustConnectPostgres(cfg.Postgres)
	case config.StoreDriverMemory:
		globalLogger.Warn().Msg("using in-memory store, data will be lost on exit")
		return memory.New()
	default:
		globalLogger.Error().
			Str("driver", cfg.Store.Driver).
			Msg("unknown store driver")
		panic(fmt.Errorf("unknown store driver: %s", cfg.Store.Driver))
	}
}

func mustConnectMongo(cfg config.MongoConfig) *mongo.Store {
	st, err := mongo.Connect(context.Background(), mongo.Options{
		URL:            cfg.URL,
		Database:       cfg.Database,
		ConnectTimeout: cfg.ConnectTimeout,
		Transactions:   cfg.Transactions,
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = st.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}

	err = st.EnsureIndexes(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create mongo indexes")
		panic(err)
	}
	globalLogger.Info().
		Str("database", cfg.Database).
		Bool("transactions", cfg.Transactions).
		Msg("connected to mongo")

	return st
}

func mustConnectPostgres(cfg config.PostgresConfig) *postgres.Store {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	st, err := postgres.Connect(context.Background(), connURL, cfg.ConnectTimeout)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = st.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}

	err = st.Migrate(context.Background(), globalLogger)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to migrate postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	return st
}

func DisconnectStore(st store.Store) {
	err := st.Close(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from store")
		return
	}
	globalLogger.Info().Msg("disconnected from store")
}
