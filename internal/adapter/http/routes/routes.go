package routes

import (
	"net/http"

	"usertodos/internal/adapter/http/handler"
	"usertodos/internal/adapter/http/middleware"
	"usertodos/internal/core/model/response"
	"usertodos/internal/core/port"
	"usertodos/internal/core/telemetry"
	"usertodos/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const APIPrefix = "/api/v1"

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler
	AuthService port.AuthService
}

type RouterConfig struct {
	ServiceName string
	Logger      *logger.Logger
	// Metrics is optional.
	Metrics *telemetry.AppMetrics
}

func SetupRouter(handlers HandlersConfig, config RouterConfig) *gin.Engine {
	router := gin.New()

	if config.ServiceName != "" {
		router.Use(otelgin.Middleware(config.ServiceName))
	}

	router.Use(middleware.CurrentMiddleware())

	if config.Logger != nil {
		router.Use(middleware.LoggingMiddleware(config.Logger))
	}

	if config.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(config.Metrics))
	}

	router.Use(middleware.Recovery())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Message:    "Not Found",
			Code:       "NOT_FOUND",
			StatusCode: http.StatusNotFound,
		})
	})

	setupRoutes(&router.RouterGroup, handlers)
	setupRoutes(router.Group(APIPrefix), handlers)

	return router
}

func setupRoutes(group *gin.RouterGroup, handlers HandlersConfig) {
	group.GET("/", handler.Index)

	if handlers.AuthHandler != nil {
		setupPublicRoutes(group, handlers.AuthHandler)
	}

	if handlers.TodoHandler != nil {
		setupProtectedRoutes(group, handlers.TodoHandler, handlers.AuthService)
	}
}

func setupPublicRoutes(group *gin.RouterGroup, authHandler *handler.AuthHandler) {
	auth := group.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/users", authHandler.CreateUser)
	}
}

func setupProtectedRoutes(group *gin.RouterGroup, todoHandler *handler.TodoHandler, auth port.AuthService) {
	todos := group.Group("/users/todos")
	todos.Use(middleware.AuthGate(auth))
	{
		todos.GET("", todoHandler.List)
		todos.GET("/:id", todoHandler.Get)
		todos.POST("", todoHandler.Create)
		todos.PATCH("", todoHandler.Update)
		todos.DELETE("/:id", todoHandler.Delete)
	}
}
