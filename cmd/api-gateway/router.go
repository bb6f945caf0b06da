package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/handler"
	"github.com/noah-isme/result-magic-api/internal/middleware"
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	"github.com/noah-isme/result-magic-api/pkg/config"
	"github.com/noah-isme/result-magic-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/result-magic-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/result-magic-api/pkg/middleware/requestid"
)

type handlers struct {
	auth      *handler.AuthHandler
	school    *handler.SchoolHandler
	users     *handler.UserHandler
	templates *handler.TemplateHandler
	results   *handler.ResultHandler
	exports   *handler.ExportHandler
	dispatch  *handler.DispatchHandler
	history   *handler.HistoryHandler
	metrics   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.auth.Register)
	authRoutes.POST("/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	school := secured.Group("/school")
	school.GET("", h.school.Get)
	school.PUT("", adminOnly, h.school.Update)
	school.DELETE("", adminOnly, h.school.Delete)

	users := school.Group("/users", adminOnly)
	users.GET("", h.users.List)
	users.POST("", h.users.Create)
	users.PUT("/:id", h.users.Update)
	users.DELETE("/:id", h.users.Delete)

	templates := secured.Group("/templates")
	templates.GET("", h.templates.List)
	templates.POST("", h.templates.Create)
	templates.GET("/:id", h.templates.Get)
	templates.PUT("/:id", h.templates.Update)
	templates.DELETE("/:id", h.templates.Delete)
	templates.POST("/:id/apply", h.templates.Apply)

	secured.POST("/grading/preview", h.results.Preview)

	results := secured.Group("/results")
	results.GET("", h.results.List)
	results.POST("", h.results.Create)
	results.GET("/:id", h.results.Get)
	results.DELETE("/:id", h.results.Delete)
	results.GET("/:id/rankings", h.results.Rankings)
	results.GET("/:id/rankings/:subject", h.results.SubjectRanking)
	results.GET("/:id/students/:studentId", h.results.StudentResult)
	results.GET("/:id/export", h.exports.ClassSummary)
	results.GET("/:id/students/:studentId/export", h.exports.StudentSheet)

	dispatch := secured.Group("/dispatch")
	dispatch.POST("", h.dispatch.Dispatch)
	dispatch.POST("/preview", h.dispatch.Preview)
	dispatch.GET("/history", h.dispatch.History)

	history := secured.Group("/history/students")
	history.GET("", h.history.Students)
	history.GET("/:admissionNumber", h.history.StudentHistory)
	history.GET("/:admissionNumber/export", h.history.Export)

	return r
}
