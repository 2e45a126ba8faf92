package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/schoolrecords/internal/app/controllers"
	appMigrations "github.com/yigit/schoolrecords/internal/app/migrations"
	appRepos "github.com/yigit/schoolrecords/internal/app/repositories"
	memoryRepos "github.com/yigit/schoolrecords/internal/app/repositories/memory"
	appRoutes "github.com/yigit/schoolrecords/internal/app/routes"
	appServices "github.com/yigit/schoolrecords/internal/app/services"
	"github.com/yigit/schoolrecords/internal/config"
	"github.com/yigit/schoolrecords/internal/db"
	"github.com/yigit/schoolrecords/internal/pkg/filestorage"
	"github.com/yigit/schoolrecords/internal/pkg/helpers"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
	"github.com/yigit/schoolrecords/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	Locker            keylock.Locker
	FileStorage       *filestorage.LocalStorage
	StudentController *appControllers.StudentController
	FacultyController *appControllers.FacultyController
	AvatarController  *appControllers.AvatarController
	Logger            zerolog.Logger

	// Database and Redis are nil unless configured
	Database *db.PostgresDB
	Redis    *redis.Client
}

// Close releases the external connections held by the dependencies.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath, ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies pending migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupLocker returns a Redis backed locker when redis.addr is set, otherwise an in-process one.
func SetupLocker(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (keylock.Locker, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Using in-process write locks")
		return keylock.NewMemoryLocker(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to ping redis")
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := helpers.ParseDuration(cfg.Redis.LockTTL, 10*time.Second)
	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("lockTTL", ttl).Msg("Using redis write locks")
	return keylock.NewRedisLocker(client, ttl), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if cfg.UsesPostgres() {
		database, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, err
		}
		deps.Database = database
		deps.Repos = appRepos.NewRepositories(database.Pool)
	} else {
		lgr.Info().Msg("Using in-memory store")
		deps.Repos = memoryRepos.NewRepositories()
	}

	locker, client, err := SetupLocker(ctx, cfg, lgr)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Locker = locker
	deps.Redis = client

	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.AvatarsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		deps.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Avatar storage ready")

	if cfg.Seed.Enabled {
		if _, err := seed.CreateDefaultData(ctx, deps.Repos.FacultyRepository, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	deps.Services = appServices.NewServices(deps.Repos, deps.Locker, deps.FileStorage)

	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.FacultyController = appControllers.NewFacultyController(deps.Services.FacultyService, deps.Services.StudentService)
	deps.AvatarController = appControllers.NewAvatarController(deps.Services.AvatarService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := appRoutes.NewEngine()
	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.FacultyController,
		deps.AvatarController,
	)

	return router
}
