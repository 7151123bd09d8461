package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/taskdeck-server/internal/api/http/handler"
	"github.com/dtroode/taskdeck-server/internal/api/http/middleware"
	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/service"
	"github.com/dtroode/taskdeck-server/internal/token"
	"github.com/dtroode/taskdeck-server/web"
)

// Router assembles the HTTP endpoint surface.
type Router struct {
	authService *service.Auth
	taskService *service.Task
	codec       *token.SessionCodec
	logger      *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	taskService *service.Task,
	codec *token.SessionCodec,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService: authService,
		taskService: taskService,
		codec:       codec,
		logger:      logger,
	}
}

// Register builds the gin engine with middleware, templates and routes.
// Load runs on everything so each page render carries a CSRF token; the CSRF
// check runs on every state-changing request before any handler.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.codec, r.logger)
	csrf := middleware.NewCSRF(r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.Handle)
	engine.Use(authenticate.Load)
	engine.Use(csrf.Handle)
	engine.SetHTMLTemplate(web.Templates())

	authHandler := handler.NewAuth(r.authService, r.codec, r.logger)
	taskHandler := handler.NewTask(r.taskService, r.authService, r.logger)

	engine.GET("/", authHandler.Index)
	engine.GET("/signup", authHandler.SignUpPage)
	engine.POST("/users", authHandler.CreateUser)
	engine.GET("/login", authHandler.LogInPage)
	engine.POST("/session", authHandler.CreateSession)
	engine.GET("/signout", authHandler.SignOut)

	todos := engine.Group("/todos")
	todos.Use(authenticate.RequireUser)
	todos.GET("", taskHandler.List)
	todos.GET("/:id", taskHandler.Get)
	todos.POST("", taskHandler.Create)
	todos.PUT("/:id", taskHandler.Toggle)
	todos.DELETE("/:id", taskHandler.Delete)

	return engine
}
