package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/taskhive/task-system/docs"
	"github.com/taskhive/task-system/internal/api/handler"
	"github.com/taskhive/task-system/internal/api/middleware"
	"github.com/taskhive/task-system/internal/core/ports"
	"github.com/taskhive/task-system/internal/core/service"
	mongodb "github.com/taskhive/task-system/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/task-system/internal/infrastructure/db/redis"
	"github.com/taskhive/task-system/internal/pkg/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The activity dispatcher and service are built in main because the
// dispatcher's worker lifetime is tied to the process context.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, dispatcher ports.ActivityDispatcher, activityService ports.ActivityService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("taskhive"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	categoryCache := redisdb.NewCategoryCache(rdb)

	authService := service.NewAuthService(userRepo, codec)
	taskService := service.NewTaskService(taskRepo, dispatcher, log)
	categoryService := service.NewCategoryService(categoryRepo, categoryCache, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	activityHandler := handler.NewActivityHandler(activityService)

	authRequired := middleware.Auth(codec)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Category routes (list is public, create needs a token) ---
	e.GET("/categories", categoryHandler.List)
	e.POST("/categories", categoryHandler.Create, authRequired)

	// --- Task routes (all owner-scoped) ---
	tasks := e.Group("/tasks", authRequired)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Activity ---
	e.GET("/activity", activityHandler.List, authRequired)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
