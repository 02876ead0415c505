package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/notehub/internal/app/auth"
	appControllers "github.com/yigit/notehub/internal/app/controllers"
	appMigrations "github.com/yigit/notehub/internal/app/migrations"
	appRepos "github.com/yigit/notehub/internal/app/repositories"
	appRoutes "github.com/yigit/notehub/internal/app/routes"
	appServices "github.com/yigit/notehub/internal/app/services"
	"github.com/yigit/notehub/internal/config"
	"github.com/yigit/notehub/internal/db"
	appMiddleware "github.com/yigit/notehub/internal/middleware"
	pkgAuth "github.com/yigit/notehub/internal/pkg/auth"
	"github.com/yigit/notehub/internal/pkg/filestorage"
	"github.com/yigit/notehub/internal/pkg/logger"
	"github.com/yigit/notehub/internal/seed"
)

// StoragePath is the URL prefix local blobs are served under
const StoragePath = "/storage"

// Dependencies holds all the application dependencies
type Dependencies struct {
	NoteService         appServices.NoteService
	RatingService       appServices.RatingService
	ProfileService      appServices.ProfileService
	ReferenceService    appServices.ReferenceService
	NoteController      *appControllers.NoteController
	RatingController    *appControllers.RatingController
	ProfileController   *appControllers.ProfileController
	ReferenceController *appControllers.ReferenceController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	Verifier            pkgAuth.Verifier
	AuthzService        *appAuth.AuthorizationService
	FileStorage         *filestorage.LocalStorage
	Database            *db.PostgresDB
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// RunMigrations applies the embedded schema migrations
func RunMigrations(cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(cfg.GetMigrationURL())
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	return nil
}

// SetupDatabase connects to PostgreSQL, optionally applying migrations and
// default data first.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, migrate bool) (*db.PostgresDB, error) {
	if migrate {
		if err := RunMigrations(cfg, lgr); err != nil {
			return nil, err
		}
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if migrate {
		if _, err := seed.CreateDefaultData(ctx, database, lgr); err != nil {
			// Missing reference rows do not prevent serving the rest of the API.
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// The verifier keeps refreshing the JWKS until ctx ends.
	deps.Verifier, err = pkgAuth.NewSessionVerifier(ctx, pkgAuth.SessionConfig{
		Secret:   cfg.Auth.JWTSecret,
		JWKSURL:  cfg.Auth.JWKSURL,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		Leeway:   30 * time.Second,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize session verifier")
		return nil, err
	}

	deps.AuthzService = appAuth.NewAuthorizationService()

	deps.NoteService = appServices.NewNoteService(
		deps.Repos.NoteRepository,
		deps.Repos.DownloadRepository,
		deps.FileStorage,
		deps.AuthzService,
	)
	deps.RatingService = appServices.NewRatingService(deps.Repos.RatingRepository, deps.Repos.NoteRepository, deps.AuthzService)
	deps.ProfileService = appServices.NewProfileService(deps.Repos.ProfileRepository, deps.FileStorage, deps.AuthzService)
	deps.ReferenceService = appServices.NewReferenceService(
		deps.Repos.ReferenceRepository,
		cfg.Cache.ReferenceSize,
		config.Duration(cfg.Cache.ReferenceTTL, 5*time.Minute),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Verifier, deps.ProfileService, 0)

	deps.NoteController = appControllers.NewNoteController(deps.NoteService, cfg.MaxUploadBytes())
	deps.RatingController = appControllers.NewRatingController(deps.RatingService)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService, cfg.MaxUploadBytes())
	deps.ReferenceController = appControllers.NewReferenceController(deps.ReferenceService)

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

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(),
		appMiddleware.Recovery(),
		appMiddleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins(),
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	appRoutes.SetupRouter(router,
		deps.NoteController,
		deps.RatingController,
		deps.ProfileController,
		deps.ReferenceController,
		deps.AuthMiddleware,
	)

	mountStorage(router, deps.FileStorage)
	lgr.Info().Str("path", deps.FileStorage.Dir(filestorage.NamespaceAvatars)).Msg("Static file serving configured for avatars")

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(deps.Database))

	return router
}

// mountStorage serves avatars by URL. Note files are only reachable through
// the download endpoint, which records the download.
func mountStorage(router gin.IRoutes, storage *filestorage.LocalStorage) {
	ns := filestorage.NamespaceAvatars
	router.Static(StoragePath+"/"+string(ns), storage.Dir(ns))
}

// pinger is the part of the database the health check needs
type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(database pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		dbStatus := "ok"
		if database == nil {
			dbStatus = "not configured"
		} else if err := database.Ping(c.Request.Context()); err != nil {
			logger.Warn().Err(err).Msg("Health check: database unreachable")
			status, code, dbStatus = "fail", http.StatusServiceUnavailable, "unreachable"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    gin.H{"postgresql": dbStatus},
		})
	}
}
