package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-board/internal/models"
)

type taskStatsResponse struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Pending      int64 `json:"pending"`
	HighPriority int64 `json:"high_priority"`
}

type projectStatsResponse struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type getStatsResponse struct {
	Tasks    taskStatsResponse    `json:"tasks"`
	Projects projectStatsResponse `json:"projects"`
}

func newGetStatsResponse(stats *models.Stats) getStatsResponse {
	return getStatsResponse{
		Tasks: taskStatsResponse{
			Total:        stats.Tasks.Total,
			Completed:    stats.Tasks.Completed,
			Pending:      stats.Tasks.Pending,
			HighPriority: stats.Tasks.HighPriority,
		},
		Projects: projectStatsResponse{
			Total:  stats.Projects.Total,
			Active: stats.Projects.Active,
		},
	}
}

func (h *handlerImpl) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Todo List API is running!"})
}

func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	stats, err := h.stats.GetStats(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get stats")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetStatsResponse(stats))
}
