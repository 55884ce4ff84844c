package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-board/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidQuery       = errors.New("invalid query parameters")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

// newInternalError exposes the raw store error text to the caller.
func newInternalError(err error) apiError {
	return newAPIError(http.StatusInternalServerError, err.Error())
}

// abortWithServiceError maps service errors to responses. Anything that
// isn't a known service error is a store failure.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError("Task not found"))
	case errors.Is(err, services.ErrProjectNotFound):
		abort(c, newNotFoundError("Project not found"))
	case errors.Is(err, services.ErrInvalidTaskTitle),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrInvalidProjectColor):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newInternalError(err))
	}
}
