package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"love-manager-backend/internal/config"
	"love-manager-backend/internal/metrics"
	"love-manager-backend/internal/observability"
	"love-manager-backend/internal/repository"
	"love-manager-backend/internal/router"
	"love-manager-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func Run() {
	// Load configuration
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	// Initialize stores
	partnerStore, adminStore, closeDB, err := openStores(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer closeDB()

	revocations, closeRedis, err := openRevocationList(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer closeRedis()

	// Initialize services
	m := metrics.New()
	partnerService := services.NewPartnerService(partnerStore, newNotifier(cfg.APNs), m)
	authService := services.NewAuthService(adminStore, revocations, cfg.JWT.Secret, cfg.JWT.TTL, m)
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("Failed to create bootstrap admin")
	}

	var imageService *services.ImageService
	if cfg.AWS.S3Bucket != "" {
		imageService, err = services.NewImageService(ctx, cfg.AWS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create image service")
		}
	} else {
		log.Warn().Msg("aws.s3_bucket not set, image upload disabled")
	}

	// Setup router
	handler := router.New(router.Options{
		PartnerService: partnerService,
		AuthService:    authService,
		ImageService:   imageService,
		Metrics:        m,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AccessLog:      true,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited")
}

// openStores connects to Postgres when configured and falls back to memory
func openStores(ctx context.Context, cfg config.DatabaseConfig) (services.PartnerStore, services.AdminStore, func(), error) {
	if !cfg.Enabled() {
		log.Warn().Msg("database.host not set, using in-memory partner store")
		return repository.NewMemoryPartnerRepository(), repository.NewMemoryAdminRepository(), func() {}, nil
	}

	db, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	return repository.NewPartnerRepository(db), repository.NewAdminRepository(db), db.Close, nil
}

func openRevocationList(ctx context.Context, cfg config.RedisConfig) (services.RevocationList, func(), error) {
	if cfg.URL == "" {
		return repository.NewMemoryRevocationList(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Info().Msg("Redis connection established")

	return repository.NewRedisRevocationList(client), func() { client.Close() }, nil
}

func newNotifier(cfg config.APNsConfig) services.Notifier {
	if !cfg.Enabled() {
		return services.NopNotifier{}
	}
	notifier, err := services.NewAPNsNotifier(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create APNs notifier, registration alerts disabled")
		return services.NopNotifier{}
	}
	return notifier
}

// setupLogger configures zerolog logger
func setupLogger(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
