package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/abacus-tasks/internal/constants"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/models"
)

// RequireEntityID checks the :id path parameter before the handler runs.
// A malformed ID can never match a stored entity, so it is reported as not
// found.
func RequireEntityID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !models.ValidEntityID(id) {
			apierrors.NotFound(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEntityID, id)
		c.Next()
	}
}

// GetEntityID retrieves the path ID stored by RequireEntityID
func GetEntityID(c *gin.Context) string {
	if id, exists := c.Get(constants.ContextKeyEntityID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return c.Param("id")
}
