package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kensetsu-dev/kensetsu/internal/auth"
	"github.com/kensetsu-dev/kensetsu/internal/handlers"
	"github.com/kensetsu-dev/kensetsu/internal/middleware"
	"github.com/kensetsu-dev/kensetsu/internal/types"
)

type Deps struct {
	Auth      *auth.Manager
	AuthH     *handlers.AuthHandlers
	Projects  *handlers.ProjectHandlers
	Employees *handlers.EmployeeHandlers
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(d.Auth)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", authRequired, d.Projects.LiveProjects)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", d.AuthH.Register)
			authGroup.POST("/login", d.AuthH.Login)
			authGroup.POST("/logout", d.AuthH.Logout)
			authGroup.GET("/me", authRequired, d.AuthH.Me)
		}

		projects := api.Group("/projects", authRequired)
		{
			projects.GET("", d.Projects.ListProjects)
			projects.POST("", d.Projects.CreateProject)
			projects.GET("/:project_id", d.Projects.GetProject)
			projects.PATCH("/:project_id", d.Projects.UpdateProject)
			projects.DELETE("/:project_id", d.Projects.DeleteProject)
		}

		api.GET("/employees", authRequired, d.Employees.ListEmployees)
	}

	return r
}
