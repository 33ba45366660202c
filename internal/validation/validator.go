package validation

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/temcen/streamlens/pkg/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// maxReportedErrors caps how many record failures one ValidateDataset call
// collects before giving up.
const maxReportedErrors = 10

const (
	schemaContent = "content"
	schemaUser    = "user"
	schemaEvent   = "viewing_event"
)

// DatasetValidator checks generated records against the embedded JSON
// schemas before they are handed to any sink.
type DatasetValidator struct {
	logger  *logrus.Logger
	schemas map[string]*gojsonschema.Schema
}

func NewDatasetValidator(logger *logrus.Logger) (*DatasetValidator, error) {
	files := map[string]string{
		schemaContent: "schemas/content.json",
		schemaUser:    "schemas/user.json",
		schemaEvent:   "schemas/viewing_event.json",
	}

	schemas := make(map[string]*gojsonschema.Schema, len(files))
	for name, path := range files {
		raw, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}

	return &DatasetValidator{logger: logger, schemas: schemas}, nil
}

// ValidateDataset validates every record of the dataset and returns an error
// describing the first violations found, or nil when the dataset is clean.
func (v *DatasetValidator) ValidateDataset(dataset *models.Dataset) error {
	var violations []ValidationError

	for _, content := range dataset.Contents {
		if result := v.validate(schemaContent, content); !result.Valid {
			violations = appendRecord(violations, content.ID, result)
			if len(violations) >= maxReportedErrors {
				return validationFailed(violations)
			}
		}
	}
	for _, user := range dataset.Users {
		if result := v.validate(schemaUser, user); !result.Valid {
			violations = appendRecord(violations, user.ID, result)
			if len(violations) >= maxReportedErrors {
				return validationFailed(violations)
			}
		}
	}
	for _, event := range dataset.Events {
		if result := v.validate(schemaEvent, event); !result.Valid {
			violations = appendRecord(violations, event.ID, result)
			if len(violations) >= maxReportedErrors {
				return validationFailed(violations)
			}
		}
	}

	if len(violations) > 0 {
		return validationFailed(violations)
	}

	v.logger.WithFields(logrus.Fields{
		"contents": len(dataset.Contents),
		"users":    len(dataset.Users),
		"events":   len(dataset.Events),
	}).Info("Dataset validated")

	return nil
}

// ValidateContent validates a single catalog entry.
func (v *DatasetValidator) ValidateContent(content models.Content) *ValidationResult {
	return v.validate(schemaContent, content)
}

// ValidateUser validates a single population member.
func (v *DatasetValidator) ValidateUser(user models.User) *ValidationResult {
	return v.validate(schemaUser, user)
}

// ValidateEvent validates a single viewing event.
func (v *DatasetValidator) ValidateEvent(event models.ViewingEvent) *ValidationResult {
	return v.validate(schemaEvent, event)
}

func (v *DatasetValidator) validate(schemaName string, record any) *ValidationResult {
	raw, err := json.Marshal(record)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "record",
				Message: fmt.Sprintf("failed to encode record: %v", err),
			}},
		}
	}

	result, err := v.schemas[schemaName].Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "record",
				Message: fmt.Sprintf("validation error: %v", err),
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out
}

// ValidationResult is the outcome of validating one record.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is a single schema violation.
type ValidationError struct {
	RecordID string `json:"record_id,omitempty"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("%s: field %q: %s", e.RecordID, e.Field, e.Message)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}

func appendRecord(violations []ValidationError, recordID string, result *ValidationResult) []ValidationError {
	for _, err := range result.Errors {
		err.RecordID = recordID
		violations = append(violations, err)
		if len(violations) >= maxReportedErrors {
			break
		}
	}
	return violations
}

func validationFailed(violations []ValidationError) error {
	msgs := make([]string, 0, len(violations))
	for _, violation := range violations {
		msgs = append(msgs, violation.Error())
	}
	return fmt.Errorf("dataset validation failed with %d violation(s): %v", len(violations), msgs)
}
