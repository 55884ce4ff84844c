package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HandleCORS allows every origin, method and request header with
// credentials. The request origin and the preflight's requested headers are
// echoed back because browsers reject wildcards when credentials are on.
func HandleCORS() gin.HandlerFunc {
	handleCORS := cors.New(cors.Config{
		AllowOriginFunc: func(string) bool { return true },
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		// cors.New leaves Access-Control-Allow-Headers alone when AllowHeaders is empty.
		if c.Request.Method == http.MethodOptions && c.GetHeader("Origin") != "" {
			requested := c.GetHeader("Access-Control-Request-Headers")
			if requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		handleCORS(c)
	}
}

func HandleRequestLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("handled request")
	}
}
