package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ekos-sistemi/ekos-api/api/swagger"
	"github.com/ekos-sistemi/ekos-api/internal/handler"
	"github.com/ekos-sistemi/ekos-api/internal/middleware"
	"github.com/ekos-sistemi/ekos-api/internal/repository"
	"github.com/ekos-sistemi/ekos-api/internal/service"
	"github.com/ekos-sistemi/ekos-api/pkg/cache"
	"github.com/ekos-sistemi/ekos-api/pkg/config"
	"github.com/ekos-sistemi/ekos-api/pkg/database"
	"github.com/ekos-sistemi/ekos-api/pkg/logger"
	corsmiddleware "github.com/ekos-sistemi/ekos-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ekos-sistemi/ekos-api/pkg/middleware/requestid"
	"github.com/ekos-sistemi/ekos-api/pkg/storage"
)

// @title EKOS API
// @version 1.0.0
// @description Ekipman Kontrol Otomasyon Sistemi - equipment inspection report API
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The API degrades to uncached reads without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init media storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	raporRepo := repository.NewRaporRepository(db)
	projeRepo := repository.NewProjeRepository(db)
	kategoriRepo := repository.NewKategoriRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	raporSvc := service.NewRaporService(raporRepo, projeRepo, mediaRepo, fileStorage, cacheRepo, validate, logr)
	mediaSvc := service.NewMediaService(mediaRepo, raporRepo, fileStorage, logr)
	projeSvc := service.NewProjeService(projeRepo, validate, logr)
	kategoriSvc := service.NewKategoriService(kategoriRepo, cacheRepo, cfg.Export.CacheTTL, validate, logr)
	dashboardSvc := service.NewDashboardService(raporRepo, projeRepo, cacheRepo, cfg.Export.CacheTTL, logr)
	zipSvc := service.NewZipExportService(raporRepo, mediaRepo, fileStorage, cfg.Export.ZipMaxReports, logr)
	excelSvc := service.NewExcelService(raporRepo, logr)
	metricsSvc := service.NewMetricsService()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Rapor:     handler.NewRaporHandler(raporSvc, zipSvc),
		Media:     handler.NewMediaHandler(mediaSvc),
		Export:    handler.NewExportHandler(excelSvc),
		Proje:     handler.NewProjeHandler(projeSvc),
		Kategori:  handler.NewKategoriHandler(kategoriSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
