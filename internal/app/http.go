package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-board/internal/config"
	"github.com/adanyl0v/go-todo-board/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-board/internal/services"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

func MustListenAndServeHTTP(st store.Store) {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: newRouter(st),
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends syscall.SIGTERM, kill -2 sends syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Dur("timeout", httpCfg.ShutdownTimeout).
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newRouter(st store.Store) *gin.Engine {
	v1Handler := v1.New(
		globalLogger,
		services.NewTaskService(globalLogger, st),
		services.NewProjectService(globalLogger, st),
		services.NewStatsService(globalLogger, st),
	)
	return v1.NewRouter(globalLogger, v1Handler)
}
