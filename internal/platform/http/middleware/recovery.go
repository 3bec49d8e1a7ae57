package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a logged error and hands the response to onPanic.
func Recovery(onPanic gin.HandlerFunc) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		onPanic(c)
		c.Abort()
	})
}
