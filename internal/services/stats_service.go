package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

type statsServiceImpl struct {
	logger zerolog.Logger
	store  store.Store
}

func NewStatsService(
	logger zerolog.Logger,
	st store.Store,
) StatsService {
	return &statsServiceImpl{
		logger: logger,
		store:  st,
	}
}

func (s *statsServiceImpl) GetStats(ctx context.Context) (*models.Stats, error) {
	var (
		stats      models.Stats
		projectIDs []any
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Tasks.Total, err = s.store.Tasks().Count(ctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.Tasks.Completed, err = s.store.Tasks().Count(ctx, store.Filter{
			"status": string(models.StatusDone),
		})
		return err
	})
	g.Go(func() (err error) {
		stats.Tasks.HighPriority, err = s.store.Tasks().Count(ctx, store.Filter{
			"priority": string(models.PriorityHigh),
			"status":   store.Ne(string(models.StatusDone)),
		})
		return err
	})
	g.Go(func() (err error) {
		stats.Projects.Total, err = s.store.Projects().Count(ctx, nil)
		return err
	})
	g.Go(func() (err error) {
		projectIDs, err = s.store.Tasks().Distinct(ctx, "project_id", store.Filter{
			"project_id": store.Ne(nil),
		})
		return err
	})

	err := g.Wait()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count stats")
		return nil, err
	}

	stats.Tasks.Pending = stats.Tasks.Total - stats.Tasks.Completed
	for _, id := range projectIDs {
		if id != nil {
			stats.Projects.Active++
		}
	}

	s.logger.Debug().
		Int64("tasks", stats.Tasks.Total).
		Int64("projects", stats.Projects.Total).
		Msg("counted stats")
	return &stats, nil
}
