package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/pkg/models"
)

// Exporter writes a dataset and its insights bundle as JSON files.
type Exporter struct {
	logger *logrus.Logger
	dir    string
}

func NewExporter(logger *logrus.Logger, dir string) *Exporter {
	return &Exporter{logger: logger, dir: dir}
}

// Export writes contents.json, users.json, viewing_events.json and
// insights.json into the configured directory, creating it if needed.
func (e *Exporter) Export(dataset *models.Dataset, bundle models.InsightsBundle) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := map[string]any{
		"contents.json":       dataset.Contents,
		"users.json":          dataset.Users,
		"viewing_events.json": dataset.Events,
		"insights.json":       bundle,
	}
	for name, payload := range files {
		if err := e.writeJSON(name, payload); err != nil {
			return err
		}
	}

	e.logger.WithFields(logrus.Fields{
		"dir":   e.dir,
		"files": len(files),
	}).Info("Dataset exported")

	return nil
}

func (e *Exporter) writeJSON(name string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
