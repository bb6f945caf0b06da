package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/noah-isme/result-magic-api/api/swagger"
	"github.com/noah-isme/result-magic-api/internal/handler"
	"github.com/noah-isme/result-magic-api/internal/repository"
	"github.com/noah-isme/result-magic-api/internal/service"
	"github.com/noah-isme/result-magic-api/pkg/cache"
	"github.com/noah-isme/result-magic-api/pkg/config"
	"github.com/noah-isme/result-magic-api/pkg/database"
	"github.com/noah-isme/result-magic-api/pkg/export"
	"github.com/noah-isme/result-magic-api/pkg/logger"
)

// @title Result Magic API
// @version 1.0.0
// @description Score entry, weighted grading, class rankings and parent dispatch for schools
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		logr.Sugar().Fatalw("failed to apply migrations", "error", err)
	}
	if len(applied) > 0 {
		logr.Sugar().Infow("migrations applied", "versions", applied)
	}

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.Pinger{"postgres": db}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, ranking cache disabled", "error", err)
		} else {
			rankingCache := repository.NewCacheRepository(redisClient, logr)
			defer rankingCache.Close() //nolint:errcheck
			cacheRepo = rankingCache
			checks["redis"] = rankingCache
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	resultSetRepo := repository.NewResultSetRepository(db)
	dispatchRepo := repository.NewDispatchRepository(db)

	authSvc := service.NewAuthService(userRepo, schoolRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, cacheSvc, validate, logr)
	templateSvc := service.NewTemplateService(templateRepo, validate, logr)
	entrySvc := service.NewScoreEntryService(resultSetRepo, cacheSvc, validate, logr)
	resultSvc := service.NewResultService(entrySvc, schoolRepo, cacheSvc, metricsSvc, cfg.Grading.PassMark, logr)
	exportSvc := service.NewExportService(resultSvc, export.NewRenderer(), metricsSvc, logr)
	dispatchSvc := service.NewDispatchService(entrySvc, dispatchRepo, metricsSvc, cfg.Dispatch.Signature, validate, logr)
	historySvc := service.NewHistoryService(resultSetRepo, cfg.Grading.PromotionThreshold, logr)

	r := newRouter(cfg, logr, authSvc, metricsSvc, handlers{
		auth:      handler.NewAuthHandler(authSvc),
		school:    handler.NewSchoolHandler(schoolSvc),
		users:     handler.NewUserHandler(userSvc),
		templates: handler.NewTemplateHandler(templateSvc),
		results:   handler.NewResultHandler(entrySvc, resultSvc),
		exports:   handler.NewExportHandler(exportSvc),
		dispatch:  handler.NewDispatchHandler(dispatchSvc),
		history:   handler.NewHistoryHandler(historySvc),
		metrics:   handler.NewMetricsHandler(metricsSvc, checks),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
