package simulation

import (
	"math/rand"

	"github.com/temcen/streamlens/pkg/models"
)

// CostProvisioner attaches financial attributes to a generated catalog. The
// simulator itself never produces cost figures; they belong to an external
// provisioning collaborator, and content without them simply reports
// cost-per-hour as NaN downstream.
type CostProvisioner interface {
	Provision(r *rand.Rand, catalog []models.Content) []models.Content
}

// UniformCostProvisioner draws production costs and marketing budgets
// uniformly from fixed ranges, using the injected source so provisioned
// catalogs stay reproducible.
type UniformCostProvisioner struct {
	ProductionCostMin  float64
	ProductionCostMax  float64
	MarketingBudgetMin float64
	MarketingBudgetMax float64
}

func NewUniformCostProvisioner() *UniformCostProvisioner {
	return &UniformCostProvisioner{
		ProductionCostMin:  1_000_000,
		ProductionCostMax:  50_000_000,
		MarketingBudgetMin: 100_000,
		MarketingBudgetMax: 10_000_000,
	}
}

func (p *UniformCostProvisioner) Provision(r *rand.Rand, catalog []models.Content) []models.Content {
	provisioned := make([]models.Content, len(catalog))
	for i, content := range catalog {
		cost := floatBetween(r, p.ProductionCostMin, p.ProductionCostMax)
		budget := floatBetween(r, p.MarketingBudgetMin, p.MarketingBudgetMax)
		content.ProductionCost = &cost
		content.MarketingBudget = &budget
		provisioned[i] = content
	}
	return provisioned
}
