package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	store  store.Store
	now    func() time.Time
}

func NewProjectService(
	logger zerolog.Logger,
	st store.Store,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		store:  st,
		now:    time.Now,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params models.ProjectCreate) (*models.Project, error) {
	if params.Name == "" {
		return nil, ErrInvalidProjectName
	}

	now := models.Timestamp(s.now())
	project := &models.Project{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Color:     models.DefaultProjectColor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if params.Description != nil {
		project.Description = *params.Description
	}
	if params.Color != nil {
		if !models.IsHexColor(*params.Color) {
			return nil, ErrInvalidProjectColor
		}
		project.Color = *params.Color
	}

	err := s.store.Projects().InsertOne(ctx, project)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) GetProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.store.Projects().Find(ctx, nil, store.FindOptions{
		SortBy:     listSortKey,
		Descending: true,
		Limit:      store.MaxFindLimit,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(projects)).
		Msg("selected projects")

	return projects, nil
}

func (s *projectServiceImpl) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.store.Projects().FindOne(ctx, store.Filter{"id": projectID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn().
				Str("project_id", projectID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select project")
		return nil, err
	}

	return project, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, params UpdateProjectParams) (*models.Project, error) {
	update := params.Update
	if update.Name != nil && *update.Name == "" {
		return nil, ErrInvalidProjectName
	}
	if update.Color != nil && !models.IsHexColor(*update.Color) {
		return nil, ErrInvalidProjectColor
	}

	existing, err := s.GetProjectByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	fields := store.Fields(update.Fields())
	fields["updated_at"] = refreshedAt(s.now(), existing.UpdatedAt)

	_, err = s.store.Projects().UpdateOne(ctx, store.Filter{"id": params.ID}, fields)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", params.ID).
			Msg("failed to update project")
		return nil, err
	}
	s.logger.Debug().
		Str("project_id", params.ID).
		Int("fields", len(fields)).
		Msg("updated project")

	project, err := s.GetProjectByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", params.ID).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID string) error {
	var tasksDeleted, projectsDeleted int64

	// Without transaction support in the store a failure between the two
	// steps leaves the project without its tasks.
	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		tasksDeleted, err = s.store.Tasks().DeleteMany(ctx, store.Filter{"project_id": projectID})
		if err != nil {
			return err
		}

		projectsDeleted, err = s.store.Projects().DeleteOne(ctx, store.Filter{"id": projectID})
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		return err
	}
	s.logger.Debug().
		Str("project_id", projectID).
		Int64("tasks", tasksDeleted).
		Msg("deleted project tasks")

	if projectsDeleted == 0 {
		s.logger.Warn().
			Str("project_id", projectID).
			Msg("project not found")
		return ErrProjectNotFound
	}

	s.logger.Info().
		Str("project_id", projectID).
		Int64("tasks", tasksDeleted).
		Msg("deleted project")
	return nil
}
