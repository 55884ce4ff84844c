package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-board/internal/services"
)

type Handler interface {
	HandleRoot(c *gin.Context)
	HandleGetStats(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleGetProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)
	HandleGetProjectTasks(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	tasks    services.TaskService
	projects services.ProjectService
	stats    services.StatsService
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	projectService services.ProjectService,
	statsService services.StatsService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		tasks:    taskService,
		projects: projectService,
		stats:    statsService,
	}
}

// NewRouter returns an engine serving h under /api. Middleware is attached
// to the engine so that preflight requests to any path are answered.
func NewRouter(logger zerolog.Logger, h Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(HandleRequestLog(logger))
	router.Use(HandleCORS())

	RegisterRoutes(router, h)
	return router
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	api := router.Group("/api")
	api.GET("/", h.HandleRoot)
	api.GET("/stats", h.HandleGetStats)

	tasks := api.Group("/tasks")
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("", h.HandleGetTasks)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	projects := api.Group("/projects")
	projects.POST("", h.HandleCreateProject)
	projects.GET("", h.HandleGetProjects)
	projects.GET("/:id", h.HandleGetProject)
	projects.PUT("/:id", h.HandleUpdateProject)
	projects.DELETE("/:id", h.HandleDeleteProject)
	projects.GET("/:id/tasks", h.HandleGetProjectTasks)
}
