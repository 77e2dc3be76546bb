package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/abacus-tasks/internal/constants"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/utils"
	"go.uber.org/zap"
)

// RequestID tags each request with an ID, reusing X-Request-ID when the
// client sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			generated, err := utils.GenerateUUID()
			if err == nil {
				id = generated
			}
		}

		c.Set(constants.ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs every request once it has been handled
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("Request handled",
			zap.String("request_id", c.GetString(constants.ContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.RequestURI()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Recovery turns a panic into a 500 and logs the stack
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(fmt.Sprintf("Recovered from panic: %v", r),
					zap.String("request_id", c.GetString(constants.ContextKeyRequestID)),
					zap.String("stack", string(debug.Stack())),
				)
				apierrors.InternalError(c, "")
				c.Abort()
			}
		}()
		c.Next()
	}
}
