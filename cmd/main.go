package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	configs "github.com/Payphone-Digital/storefront/config"
	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/grid"
	"github.com/Payphone-Digital/storefront/internal/handler"
	"github.com/Payphone-Digital/storefront/internal/middleware"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/internal/router"
	"github.com/Payphone-Digital/storefront/internal/service"
	"github.com/Payphone-Digital/storefront/internal/store/gormstore"
	"github.com/Payphone-Digital/storefront/internal/store/memory"
	"github.com/Payphone-Digital/storefront/pkg/cache"
	"github.com/Payphone-Digital/storefront/pkg/circuit"
	"github.com/Payphone-Digital/storefront/pkg/database"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
	"github.com/Payphone-Digital/storefront/pkg/redis"
)

// stateStore is what the grid controllers and the health check need from
// the per-client state backend.
type stateStore interface {
	grid.StateStore
	handler.Pinger
}

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
		zap.String("db_driver", config.Database.Driver),
	)

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, catalogs := openCatalog(config)
	if db != nil {
		defer database.CloseDB(db)
	}

	if config.App.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.SeedCatalog(ctx, catalogs); err != nil {
			logger.GetLogger().Error("Failed to seed catalog", zap.Error(err))
		} else {
			logger.GetLogger().Info("Catalog seeded")
		}
		cancel()
	}

	store, storeName, closeStore := openStateStore(config)
	defer closeStore()

	// Grid controllers
	bookGrid := grid.NewController(constants.GridBooks, grid.Defaults{
		PageSize:      config.Grid.Books.PageSize,
		SortField:     config.Grid.Books.SortField,
		SortDirection: query.ParseDirection(config.Grid.Books.SortDirection),
		MaxPageSize:   config.Grid.MaxPageSize,
	}, store, config.Session.TTL)
	authorGrid := grid.NewController(constants.GridAuthors, grid.Defaults{
		PageSize:      config.Grid.Authors.PageSize,
		SortField:     config.Grid.Authors.SortField,
		SortDirection: query.ParseDirection(config.Grid.Authors.SortDirection),
		MaxPageSize:   config.Grid.MaxPageSize,
	}, store, config.Session.TTL)

	// Services
	bookService, err := service.NewBookService(catalogs, bookGrid)
	if err != nil {
		logger.GetLogger().Fatal("Failed to create book service", zap.Error(err))
	}
	authorService := service.NewAuthorService(catalogs, authorGrid)
	genreService := service.NewGenreService(catalogs)

	// Handlers
	r := router.NewRouter(
		handler.NewBookHandler(bookService),
		handler.NewAuthorHandler(authorService),
		handler.NewGenreHandler(genreService),
		handler.NewAdminHandler(bookService, authorService, genreService),
		handler.NewHealthHandler(db, store, storeName),

		middleware.NewValidationMiddleware(),
		middleware.SessionConfig{
			CookieName: config.Session.CookieName,
			TTL:        config.Session.TTL,
			Secure:     config.Session.Secure,
		},
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.App.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server shutdown failed", zap.Error(err))
	}
}

// openCatalog connects the configured catalog store. The returned db is nil
// for the in-memory driver.
func openCatalog(config *configs.Config) (*gorm.DB, repository.CatalogFactory) {
	if config.Database.Driver == constants.DriverMemory {
		logger.GetLogger().Info("Using in-memory catalog")
		return nil, memory.NewCatalogTables().Factory()
	}

	db, err := database.NewDB(database.Config{
		Driver:          config.Database.Driver,
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	if err := database.CatalogIndexes(db); err != nil {
		logger.GetLogger().Warn("Failed to create catalog indexes", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	return db, gormstore.Factory(db)
}

// openStateStore picks Redis when enabled and reachable, otherwise the
// process-local cache.
func openStateStore(config *configs.Config) (stateStore, string, func()) {
	if config.Redis.Enabled {
		client := redis.NewClient(redis.Config{
			Host:         config.Redis.Host,
			Port:         config.Redis.Port,
			Password:     config.Redis.Password,
			DB:           config.Redis.Database,
			Enabled:      config.Redis.Enabled,
			PoolSize:     config.Redis.PoolSize,
			MinIdleConns: config.Redis.MinIdleConns,
			DialTimeout:  config.Redis.DialTimeout,
			ReadTimeout:  config.Redis.ReadTimeout,
			WriteTimeout: config.Redis.WriteTimeout,
			PoolTimeout:  config.Redis.PoolTimeout,
		}, logger.GetLogger()).
			WithBreaker(circuit.NewBreaker("grid-state", circuit.DefaultConfig(), logger.GetLogger()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := client.Ping(ctx)
		if err == nil {
			logger.GetLogger().Info("Grid state stored in Redis",
				zap.String("address", config.RedisAddress()),
			)
			return client, "redis", func() { _ = client.Close() }
		}
		logger.GetLogger().Warn("Redis unreachable, keeping grid state in memory",
			zap.String("address", config.RedisAddress()),
			zap.Error(err),
		)
		_ = client.Close()
	}

	mem := cache.NewCache(time.Minute)
	return mem, "memory cache", func() { _ = mem.Close() }
}
