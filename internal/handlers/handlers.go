package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/database"
	"github.com/temcen/streamlens/internal/services"
)

// Handlers bundles all HTTP handlers of the insights API.
type Handlers struct {
	Insights *InsightsHandler
	Auth     *AuthHandler
	Pipeline *PipelineHandler
	Health   *HealthHandler
}

func New(
	logger *logrus.Logger,
	insightsService *services.InsightsService,
	authService *services.AuthService,
	runner PipelineRunner,
	db *database.Database,
) *Handlers {
	return &Handlers{
		Insights: NewInsightsHandler(logger, insightsService),
		Auth:     NewAuthHandler(logger, authService),
		Pipeline: NewPipelineHandler(logger, runner),
		Health:   NewHealthHandler(logger, db),
	}
}
