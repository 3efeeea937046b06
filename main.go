package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering-backend/cache"
	"catering-backend/config"
	"catering-backend/controllers"
	"catering-backend/costing"
	"catering-backend/database"
	"catering-backend/logging"
	"catering-backend/metrics"
	"catering-backend/middleware"
	"catering-backend/routes"
	"catering-backend/services"
	"catering-backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	src := newSource(cfg, db, log)
	results, err := newResultCache(cfg, log)
	if err != nil {
		log.Fatal("result cache unavailable", zap.Error(err))
	}
	svc := services.NewAnalyticsService(src, services.Options{
		LoadTimeout: cfg.LoadTimeout,
		SnapshotTTL: cfg.SnapshotTTL,
		Results:     results,
	}, log)

	app := setupApp(cfg, db, svc, log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func setupApp(cfg *config.Config, db *gorm.DB, svc controllers.Analytics, log *zap.Logger) *fiber.App {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(logger.New())

	routes.RegisterAuthRoutes(app, controllers.NewAuthController(db, cfg.JWTSecret, log))
	routes.RegisterCostingRoutes(app,
		controllers.NewAnalyticsController(svc, log),
		middleware.JWTProtected(cfg.JWTSecret, cfg.AuthEnabled, log),
	)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Costing backend is running"})
	})
	return app
}

func newSource(cfg *config.Config, db *gorm.DB, log *zap.Logger) costing.Source {
	if cfg.DataSource == "rest" {
		log.Info("using REST data source", zap.String("baseURL", cfg.RestBaseURL))
		return store.NewRestSource(cfg.RestBaseURL, cfg.RestAPIKey, log)
	}
	return store.NewGormSource(db, log)
}

func newResultCache(cfg *config.Config, log *zap.Logger) (cache.Store[[]costing.VariationResult], error) {
	if cfg.CacheBackend == "redis" {
		rdb, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.Info("using redis result cache", zap.String("addr", cfg.RedisAddr))
		return cache.NewRedis[[]costing.VariationResult](rdb, "costing:variations:", cfg.CacheTTL, metrics.CacheObserver{}, log), nil
	}
	return cache.NewMemory[[]costing.VariationResult](cfg.CacheTTL, metrics.CacheObserver{}), nil
}
