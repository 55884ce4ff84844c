package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/services"
)

type getProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty" binding:"omitempty,hexcolor"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.CreateProject(c, models.ProjectCreate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	projects, err := h.projects.GetProjects(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get projects")
		abortWithServiceError(c, err)
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i := range projects {
		response[i] = newGetProjectResponse(&projects[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	project, err := h.projects.GetProjectByID(c, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

type updateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty" binding:"omitempty,hexcolor"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.UpdateProject(c, services.UpdateProjectParams{
		ID: c.Param("id"),
		Update: models.ProjectUpdate{
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
		},
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update project")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	err := h.projects.DeleteProject(c, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete project")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project and all its tasks deleted successfully"})
}

func (h *handlerImpl) HandleGetProjectTasks(c *gin.Context) {
	tasks, err := h.tasks.GetTasksByProjectID(c, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get project tasks")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}
