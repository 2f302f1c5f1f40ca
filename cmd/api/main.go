package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/atsuyamaru/wine-ec-email-composer/config"
	"github.com/atsuyamaru/wine-ec-email-composer/internal/database"
	"github.com/atsuyamaru/wine-ec-email-composer/internal/logging"
	"github.com/atsuyamaru/wine-ec-email-composer/internal/middleware"
	winerepo "github.com/atsuyamaru/wine-ec-email-composer/internal/repositories/wine"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/dedup"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/events"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/extraction"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/importer"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/kafka"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/matching"
	composeroutes "github.com/atsuyamaru/wine-ec-email-composer/pkg/routes/compose"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/routes/health"
	importerroutes "github.com/atsuyamaru/wine-ec-email-composer/pkg/routes/importer"
	wineroutes "github.com/atsuyamaru/wine-ec-email-composer/pkg/routes/wine"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, zapLogger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tracerProvider)
	tracing.SetTracer(tracerProvider.Tracer(cfg.AppName))
	defer tracerProvider.Shutdown(context.Background())

	db, err := database.Connect(ctx, database.Config{
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		User:            cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, "file://"+cfg.DatabaseMigrationFolderPath); err != nil {
		logger.WithError(err).Error("Failed to run migrations")
		os.Exit(1)
	}

	repo := winerepo.NewRepository(db, logger)
	deduplicator := dedup.NewWithScorer(logger, matching.NewScorerWithConfig(matching.Config{
		LooseProducerScore: cfg.LooseProducerScore,
	}))

	var emitter *events.Emitter
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		emitter = events.NewEmitter(producer, logger)
	}

	parser, err := extraction.NewGeminiParser(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create wine list parser")
		os.Exit(1)
	}
	defer parser.Close()

	importService := importer.NewService(importer.Config{
		DefaultThreshold: cfg.SimilarityThreshold,
		DebugTraces:      cfg.DedupDebug,
	}, parser, deduplicator, repo, emitter, logger)

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		logger.WithError(err).Error("Failed to create DI container")
		os.Exit(1)
	}
	if err := registerDependencies(container, &cfg, logger, repo, deduplicator, importService); err != nil {
		logger.WithError(err).Error("Failed to register dependencies")
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	checker := health.NewChecker(db, serviceVersion)
	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	wineroutes.Register(api.Group("/wines"))
	importerroutes.Register(api.Group("/imports"))
	composeroutes.Register(api.Group("/compose"))

	checker.SetReady(true)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.WithFields(map[string]any{"addr": addr}).Info("Starting API server")
		if err := e.Start(addr); err != nil {
			logger.WithError(err).Info("API server stopped")
		}
	}()

	<-ctx.Done()
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down cleanly")
	}
}

func registerDependencies(
	container ectocontainer.DIContainer,
	cfg *config.Config,
	logger ectologger.Logger,
	repo *winerepo.Repository,
	deduplicator *dedup.Deduplicator,
	importService *importer.Service,
) error {
	if err := ectoinject.RegisterInstance[*config.Config](container, cfg); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*winerepo.Repository](container, repo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*dedup.Deduplicator](container, deduplicator); err != nil {
		return err
	}
	return ectoinject.RegisterInstance[*importer.Service](container, importService)
}
