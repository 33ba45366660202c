package models

const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// Content is a single catalog entry. Immutable after generation.
//
// ProductionCost and MarketingBudget are not produced by the simulator;
// they are optional passthrough attributes attached by a provisioning
// collaborator and consumed only by cost-per-hour reporting.
type Content struct {
	ID              string   `json:"content_id" db:"content_id"`
	Type            string   `json:"type" db:"type" validate:"required,oneof=movie series"`
	Title           string   `json:"title" db:"title" validate:"required"`
	Genre           string   `json:"genre" db:"genre" validate:"required"`
	ReleaseYear     int      `json:"release_year" db:"release_year"`
	DurationMinutes int      `json:"duration_minutes" db:"duration_minutes" validate:"min=1"`
	Language        string   `json:"language" db:"language" validate:"required"`
	Rating          string   `json:"rating" db:"rating"`
	Tags            []string `json:"tags" db:"tags" validate:"len=3"`
	ProductionCost  *float64 `json:"production_cost,omitempty" db:"production_cost"`
	MarketingBudget *float64 `json:"marketing_budget,omitempty" db:"marketing_budget"`
}
