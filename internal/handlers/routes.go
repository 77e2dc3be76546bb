package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/abacus-tasks/internal/middleware"
)

// RegisterRoutes mounts the API on r
func RegisterRoutes(r *gin.Engine, health *HealthHandler, tasks *TaskHandler, users *UserHandler) {
	r.GET("/health", health.Health)

	api := r.Group("/api")
	{
		employees := api.Group("/employees")
		{
			employees.POST("", users.CreateUser)
			employees.GET("", users.ListUsers)
			employees.GET("/:id", middleware.RequireEntityID(), users.GetUser)
			employees.PATCH("/:id", middleware.RequireEntityID(), users.UpdateUser)
			employees.DELETE("/:id", middleware.RequireEntityID(), users.DeleteUser)
			employees.GET("/:id/tasks", middleware.RequireEntityID(), tasks.ListEmployeeTasks)
		}

		taskRoutes := api.Group("/tasks")
		{
			taskRoutes.GET("", tasks.ListTasks)
			taskRoutes.POST("", tasks.CreateTask)
			taskRoutes.POST("/generate", tasks.GenerateTasks)
			taskRoutes.GET("/:id", middleware.RequireEntityID(), tasks.GetTask)
			taskRoutes.PATCH("/:id", middleware.RequireEntityID(), tasks.UpdateTask)
			taskRoutes.PUT("/:id", middleware.RequireEntityID(), tasks.UpdateTask)
			taskRoutes.DELETE("/:id", middleware.RequireEntityID(), tasks.DeleteTask)
			taskRoutes.POST("/:id/assign", middleware.RequireEntityID(), tasks.AssignTask)
			taskRoutes.POST("/:id/unassign", middleware.RequireEntityID(), tasks.UnassignTask)
		}
	}
}
