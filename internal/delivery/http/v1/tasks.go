package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/services"
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   *string    `json:"project_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newGetTasksResponse(tasks []models.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i := range tasks {
		response[i] = newGetTaskResponse(&tasks[i])
	}
	return response
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *timestamp `json:"due_date,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, models.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Status:      taskStatusPtr(req.Status),
		Priority:    taskPriorityPtr(req.Priority),
		DueDate:     req.DueDate.timePtr(),
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type getTasksQuery struct {
	ProjectID string `form:"project_id"`
	Status    string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var query getTasksQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidQuery.Error()))
		return
	}

	tasks, err := h.tasks.GetTasks(c, services.GetTasksParams{
		ProjectID: query.ProjectID,
		Status:    models.TaskStatus(query.Status),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.tasks.GetTaskByID(c, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string        `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string        `json:"description,omitempty"`
	Status      *string        `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string        `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *timestamp     `json:"due_date,omitempty"`
	ProjectID   nullableString `json:"project_id"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID: c.Param("id"),
		Update: models.TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Status:      taskStatusPtr(req.Status),
			Priority:    taskPriorityPtr(req.Priority),
			DueDate:     req.DueDate.timePtr(),
			ProjectID:   req.ProjectID.patch(),
		},
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	err := h.tasks.DeleteTask(c, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func taskStatusPtr(s *string) *models.TaskStatus {
	if s == nil {
		return nil
	}
	status := models.TaskStatus(*s)
	return &status
}

func taskPriorityPtr(s *string) *models.TaskPriority {
	if s == nil {
		return nil
	}
	priority := models.TaskPriority(*s)
	return &priority
}
