package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"citizen-portal.backend/internal/config"
	"citizen-portal.backend/internal/domain/repositories"
	"citizen-portal.backend/internal/domain/schemas"
	"citizen-portal.backend/internal/infrastructure/jobs"
	"citizen-portal.backend/internal/infrastructure/payment"
	repoimpl "citizen-portal.backend/internal/infrastructure/repositories"
	"citizen-portal.backend/internal/infrastructure/tempstore"
	"citizen-portal.backend/internal/infrastructure/textgen"
	"citizen-portal.backend/internal/interfaces/http/handlers"
	"citizen-portal.backend/internal/interfaces/http/middleware"
	"citizen-portal.backend/internal/usecases"
	"citizen-portal.backend/pkg/jwt"
	"citizen-portal.backend/pkg/logger"
	"citizen-portal.backend/pkg/metrics"
	"citizen-portal.backend/pkg/redis"
)

const (
	tempStoreRedis  = "redis"
	shutdownTimeout = 10 * time.Second
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	migrateDB  = repoimpl.Migrate
	newMetrics = metrics.New
	runServer  = serveHTTP
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

// serveHTTP serves r until ctx is done, then drains in-flight requests.
func serveHTTP(ctx context.Context, r *gin.Engine, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newTempStore picks the store for unpaid form payloads. The redis store requires a live
// client.
func newTempStore(cfg config.TempStoreConfig) (repositories.TempDataStore, error) {
	if cfg.Driver == tempStoreRedis {
		if redis.GetClient() == nil {
			return nil, fmt.Errorf("temp store driver %q requires redis", cfg.Driver)
		}
		return redis.NewTempStore(cfg.EncryptionKey, cfg.TTL)
	}
	return tempstore.NewMemory(cfg.TTL), nil
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis backs idempotent replays and, optionally, the temp store
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		if cfg.TempStore.Driver == tempStoreRedis {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		logger.Warn(ctx, "Redis unavailable, idempotency replay disabled", zap.Error(err))
		redis.SetClient(nil)
	} else {
		logger.Info(ctx, "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	registry := schemas.Default()
	if err := migrateDB(ctx, db, registry.Kinds()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(ctx, "Database ready", zap.Int("collections", len(registry.Kinds())))

	tempStore, err := newTempStore(cfg.TempStore)
	if err != nil {
		return fmt.Errorf("failed to initialize temp store: %w", err)
	}

	// Initialize repositories
	appRepo := repoimpl.NewApplicationRepository(db)
	sessionRepo := repoimpl.NewPaymentSessionRepository(db)
	uow := repoimpl.NewUnitOfWork(db)

	m := newMetrics()
	gateway := payment.NewStripeGateway(cfg.Payment.SecretKey, cfg.Payment.WebhookSecret, payment.Options{})
	generator := textgen.NewGeminiClient(textgen.Config{
		APIKey:  cfg.GenAI.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	})

	// Initialize usecases
	applicationUsecase := usecases.NewApplicationUsecase(registry, appRepo, m)
	paymentUsecase := usecases.NewPaymentSessionUsecase(
		registry, appRepo, sessionRepo, tempStore, gateway, usecases.DefaultPriceBook(), uow, m,
		usecases.PaymentSessionConfig{
			PublicBaseURL: cfg.Server.PublicBaseURL,
			Currency:      cfg.Payment.Currency,
		},
	)
	assistUsecase := usecases.NewAssistUsecase(generator, cfg.GenAI.Temperature)

	var jwtService *jwt.JWTService
	if cfg.Staff.JWTSecret != "" {
		jwtService = jwt.NewJWTService(cfg.Staff.JWTSecret, cfg.Staff.TokenExpiry, cfg.Staff.Issuer)
	} else {
		logger.Warn(ctx, "STAFF_JWT_SECRET not set, review routes are unauthenticated")
	}

	// SIGINT or SIGTERM stops the server and the background jobs
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start background jobs
	jobCtx, cancel := context.WithCancel(runCtx)
	defer cancel()

	expiryJob := jobs.NewPaymentSessionExpiryJob(sessionRepo, cfg.Payment.ExpiryInterval, cfg.Payment.SessionExpiry)
	go expiryJob.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(m))

	applyCORSMiddleware(r, cfg.Server.CORSAllowedOrigins)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerAPIV1Routes(r, routeDeps{
		registry:           registry,
		applicationHandler: handlers.NewApplicationHandler(applicationUsecase),
		paymentHandler:     handlers.NewPaymentHandler(paymentUsecase),
		assistHandler:      handlers.NewAssistHandler(assistUsecase),
		staffAuth:          middleware.StaffAuthMiddleware(jwtService),
	})

	logger.Info(ctx, "Citizen portal backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	err = runServer(runCtx, r, cfg.Server.Port)
	logger.Info(ctx, "Shutting down server")
	expiryJob.Stop()
	cancel()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
