package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/domain/billing"
	"github.com/caseflow/caseflow/internal/domain/casefiles"
	"github.com/caseflow/caseflow/internal/domain/cases"
	"github.com/caseflow/caseflow/internal/domain/dashboard"
	"github.com/caseflow/caseflow/internal/domain/facilities"
	"github.com/caseflow/caseflow/internal/domain/support"
	"github.com/caseflow/caseflow/internal/domain/surgeons"
	"github.com/caseflow/caseflow/internal/domain/users"
	"github.com/caseflow/caseflow/internal/platform/auth"
	"github.com/caseflow/caseflow/internal/platform/awsx"
	"github.com/caseflow/caseflow/internal/platform/db"
	"github.com/caseflow/caseflow/internal/platform/middleware"
	"github.com/caseflow/caseflow/internal/platform/objectstore"
	"github.com/caseflow/caseflow/internal/platform/telemetry"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "caseflow-server",
		Short: "Surgical case management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %s\n", "VERSION", "NAME", "STATUS")
			for _, s := range statuses {
				status := "pending"
				if s.Applied {
					status = "applied"
				}
				fmt.Printf("%-10d %-40s %s\n", s.Version, s.Name, status)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// connect loads config and opens the pool, resolving the database URL from
// Secrets Manager when DB_SECRET_NAME is set.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dbURL, err := resolveDatabaseURL(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return db.NewPool(ctx, dbURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func resolveDatabaseURL(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL, nil
	}
	awsCfg, err := awsx.LoadConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return "", err
	}
	url, err := awsx.FetchSecret(ctx, awsCfg, cfg.DBSecretName)
	if err != nil {
		return "", fmt.Errorf("resolve database url from secret %s: %w", cfg.DBSecretName, err)
	}
	return url, nil
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	dbURL, err := resolveDatabaseURL(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve database url")
	}

	pool, err := db.NewPool(ctx, dbURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// AWS-backed services are optional; unset config falls back to local
	// substitutes so development needs no cloud account.
	var (
		mailer   awsx.Mailer
		identity awsx.IdentityProvider
		store    objectstore.Store
	)
	if cfg.SESSender != "" || cfg.CognitoPoolID != "" {
		awsCfg, err := awsx.LoadConfig(ctx, cfg.AWSRegion)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load aws config")
		}
		if cfg.SESSender != "" {
			mailer = awsx.NewSESMailer(awsCfg, cfg.SESSender)
		}
		if cfg.CognitoPoolID != "" {
			identity = awsx.NewCognitoProvider(awsCfg, cfg.CognitoPoolID)
		}
	}
	if cfg.FilesBucket != "" {
		s3Store, err := objectstore.NewS3Store(ctx, cfg.FilesBucket, cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize s3 object store")
		}
		store = s3Store
	} else {
		if cfg.IsProduction() {
			logger.Fatal().Msg("FILES_BUCKET is required in production")
		}
		logger.Warn().Msg("FILES_BUCKET not set; using in-memory object store")
		store = objectstore.NewMemoryStore()
	}

	metrics := telemetry.NewRegistry()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(telemetry.Middleware(metrics))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	}

	e.GET("/health", db.HealthHandler(pool))
	e.GET("/metrics", metrics.Handler())

	apiV1 := e.Group("/api/v1")

	// Users
	userRepo := users.NewRepoPG(pool)
	userSvc := users.NewService(userRepo, identity, mailer, logger)
	users.NewHandler(userSvc).RegisterRoutes(apiV1)

	// Cases
	caseRepo := cases.NewRepoPG(pool)
	caseSvc := cases.NewService(caseRepo)
	cases.NewHandler(caseSvc, store).RegisterRoutes(apiV1)

	// Surgeons
	surgeonRepo := surgeons.NewRepoPG(pool)
	surgeonSvc := surgeons.NewService(surgeonRepo)
	surgeons.NewHandler(surgeonSvc).RegisterRoutes(apiV1)

	// Facilities
	facilityRepo := facilities.NewRepoPG(pool)
	facilitySvc := facilities.NewService(facilityRepo)
	facilities.NewHandler(facilitySvc).RegisterRoutes(apiV1)

	// Payment tiers
	tierRepo := billing.NewRepoPG(pool)
	tierSvc := billing.NewService(tierRepo)
	billing.NewHandler(tierSvc).RegisterRoutes(apiV1)

	// FAQs and bug reports
	faqRepo := support.NewFAQRepoPG(pool)
	bugRepo := support.NewBugReportRepoPG(pool)
	supportSvc := support.NewService(faqRepo, bugRepo, mailer, cfg.BugReportInbox, logger)
	support.NewHandler(supportSvc).RegisterRoutes(apiV1)

	// Admin dashboard
	dashRepo := dashboard.NewRepoPG(pool)
	dashSvc := dashboard.NewService(dashRepo)
	dashboard.NewHandler(dashSvc).RegisterRoutes(apiV1)

	// Bulk case-file bundle pipeline
	mode := casefiles.StaticMode(cfg.CompressionMode == "aggressive")
	bundleSvc := casefiles.NewService(userSvc, caseSvc, store, mode, cfg.Bundle(), metrics, logger)
	casefiles.NewHandler(bundleSvc, logger).RegisterRoutes(apiV1)

	// Start and wait for shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()
	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
