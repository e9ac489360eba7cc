package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsio "github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	emailadapter "github.com/mahinrabby10101/farm-backend/internal/adapter/email"
	mongoadapter "github.com/mahinrabby10101/farm-backend/internal/adapter/mongo"
	natsadapter "github.com/mahinrabby10101/farm-backend/internal/adapter/nats"
	redisadapter "github.com/mahinrabby10101/farm-backend/internal/adapter/redis"
	"github.com/mahinrabby10101/farm-backend/internal/app/config"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/platform/metrics"
	httpport "github.com/mahinrabby10101/farm-backend/internal/port/http"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
	"github.com/mahinrabby10101/farm-backend/internal/service"
)

const metricsNamespace = "farm_backend"

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	metrics     *metrics.Manager
	mongoClient *mongo.Client
	redisClient *goredis.Client
	natsConn    *natsio.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP port: %s", cfg.Env, cfg.HTTPServer.Port)

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized")

	cropRepo := mongoadapter.NewCropRepository(mongoClient, cfg.MongoDB, appLogger)

	// The crop cache is an optimization; the service stays correct without
	// it, so a missing Redis only degrades reads.
	var cropCache repository.CropCache
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Warnf("Redis unavailable, running without crop cache: %v", err)
		redisClient = nil
	} else {
		cropCache = redisadapter.NewCropCacheRepository(redisClient)
		appLogger.Info("Redis crop cache initialized")
	}

	var msgPublisher natsadapter.MessagePublisher
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Warnf("NATS unavailable, running without event publishing: %v", err)
		natsConn = nil
	} else {
		msgPublisher, err = natsadapter.NewNATSPublisher(natsConn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		appLogger.Info("NATS publisher initialized")
	}

	var emailSender emailadapter.EmailSender
	if cfg.SMTP.Host != "" {
		emailSender, err = emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			appLogger.Warnf("SMTP sender misconfigured, running without buyer notifications: %v", err)
			emailSender = nil
		} else {
			appLogger.Info("SMTP sender initialized")
		}
	}

	metricsManager := metrics.NewManager(metricsNamespace)

	interestSvc := service.NewInterestService(cropRepo, cropCache, msgPublisher, emailSender, metricsManager, appLogger)
	catalogSvc := service.NewCatalogService(cropRepo, cropCache, cfg.CropCache.TTL, appLogger)
	querySvc := service.NewQueryService(cropRepo, appLogger)

	cropHandler := httpport.NewCropHandler(catalogSvc, querySvc, appLogger)
	interestHandler := httpport.NewInterestHandler(interestSvc, appLogger)
	router := httpport.NewRouter(cropHandler, interestHandler, appLogger, metricsManager)

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      httpport.NewServer(appLogger, cfg.HTTPServer, router),
		metrics:     metricsManager,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := metrics.StartServer(a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil {
			a.log.Warnf("Metrics server stopped: %v", err)
		}
	}()

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server shutdown: %v", err)
	}

	if a.natsConn != nil {
		a.natsConn.Close()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
}
