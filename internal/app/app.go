package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/config"
	"github.com/temcen/streamlens/internal/database"
	"github.com/temcen/streamlens/internal/handlers"
	"github.com/temcen/streamlens/internal/messaging"
	"github.com/temcen/streamlens/internal/middleware"
	"github.com/temcen/streamlens/internal/pipeline"
	"github.com/temcen/streamlens/internal/services"
	"github.com/temcen/streamlens/internal/validation"
	"github.com/temcen/streamlens/internal/warehouse"
)

// App wires configuration, backing stores, the pipeline and the insights
// API together.
type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	firehose *messaging.EventFirehose
	pipeline *pipeline.Pipeline
	insights *services.InsightsService
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	app.insights = services.NewInsightsService(cfg, app.logger, db.Redis)
	authService := services.NewAuthService(cfg, app.logger, db.Redis)

	validator, err := validation.NewDatasetValidator(app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dataset validator: %w", err)
	}

	app.pipeline = pipeline.New(cfg.Simulation, app.logger, pipeline.NewMetrics(nil)).
		WithValidator(validator).
		WithSinks(app.buildSinks(cfg))

	if cfg.Output.Enabled {
		app.pipeline.WithExporter(pipeline.NewExporter(app.logger, cfg.Output.Dir))
	}

	app.handlers = handlers.New(app.logger, app.insights, authService, app.pipeline, db)

	app.setupRouter(authService)

	return app, nil
}

// buildSinks engages a sink for every enabled backing store. The insights
// service always receives bundles so the API can serve them.
func (a *App) buildSinks(cfg *config.Config) pipeline.Sinks {
	sinks := pipeline.Sinks{Cache: a.insights}

	if a.db.PG != nil {
		sinks.Warehouse = warehouse.NewSink(a.db.PG, a.logger)
	}
	if a.db.Neo4j != nil {
		sinks.Graph = warehouse.NewGraphSink(a.db.Neo4j, a.logger)
	}
	if cfg.Kafka.Enabled {
		a.firehose = messaging.NewEventFirehose(cfg, a.logger)
		sinks.Firehose = a.firehose
	}

	return sinks
}

// RunPipeline executes one generation and analysis pass.
func (a *App) RunPipeline(ctx context.Context) (*pipeline.Result, error) {
	return a.pipeline.Run(ctx)
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Logger() *logrus.Logger {
	return a.logger
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.firehose != nil {
		if err := a.firehose.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing event firehose")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter(authService *services.AuthService) {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health check endpoint (no auth required)
	router.GET("/health", a.handlers.Health.Check)

	if a.config.Monitoring.Enabled {
		router.GET(a.config.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	// Token exchange (no auth required)
	router.POST("/auth/token", a.handlers.Auth.Token)

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(authService, a.logger))

		insights := api.Group("/insights")
		{
			insights.GET("", a.handlers.Insights.GetBundle)
			insights.GET("/runs/:run_id", a.handlers.Insights.GetBundleByRun)
			insights.GET("/content", a.handlers.Insights.GetTopContent)
			insights.GET("/segments", a.handlers.Insights.GetSegments)
			insights.GET("/temporal", a.handlers.Insights.GetTemporalPatterns)
			insights.GET("/devices", a.handlers.Insights.GetDevicePerformance)
		}

		api.POST("/pipeline/run",
			middleware.RequireRole(services.RoleOperator),
			a.handlers.Pipeline.TriggerRun)
	}

	a.router = router
}
