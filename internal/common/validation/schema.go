package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "knowledge-search/internal/common/errors"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Request body schema names.
const (
	SchemaSearchRequest   = "searchRequest"
	SchemaAnswerRequest   = "answerRequest"
	SchemaFeedbackRequest = "feedbackRequest"
	SchemaHistoryRequest  = "historyRequest"
)

var requestSchemas = map[string]string{
	SchemaSearchRequest: `{
		"type": "object",
		"required": ["query"],
		"properties": {
			"query": {"type": "string", "maxLength": 2000},
			"sortBy": {"type": "string", "enum": ["relevance", "date", "popularity"]},
			"filters": {
				"type": "object",
				"properties": {
					"category": {"type": "string"},
					"dateRange": {"type": "string"},
					"startDate": {"type": ["string", "null"]},
					"endDate": {"type": ["string", "null"]}
				}
			}
		}
	}`,
	SchemaAnswerRequest: `{
		"type": "object",
		"required": ["query"],
		"properties": {
			"query": {"type": "string", "minLength": 1, "maxLength": 2000},
			"articleIds": {"type": "array", "items": {"type": "string"}, "maxItems": 200}
		}
	}`,
	SchemaFeedbackRequest: `{
		"type": "object",
		"required": ["responseId", "feedback"],
		"properties": {
			"responseId": {"type": "string", "minLength": 1},
			"feedback": {
				"type": "object",
				"required": ["type"],
				"properties": {
					"type": {"type": "string", "enum": ["helpful", "not_helpful", "edited", "suggested"]},
					"reason": {"type": "string", "maxLength": 2000},
					"suggestion": {"type": "string", "maxLength": 2000}
				}
			}
		}
	}`,
	SchemaHistoryRequest: `{
		"type": "object",
		"required": ["query"],
		"properties": {
			"query": {"type": "string", "minLength": 1, "maxLength": 2000}
		}
	}`,
}

// SchemaValidator validates raw JSON bodies against compiled schemas.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the built-in request schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(requestSchemas))}
	for name, src := range requestSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks body against the named schema.
func (v *SchemaValidator) Validate(name string, body []byte) (*ValidationResult, error) {
	schema, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{Field: "(root)", Message: "malformed JSON body", Code: "INVALID_JSON"}},
		}, nil
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// Err converts the first failure into a ValidationError for the error handler.
func (vr *ValidationResult) Err() error {
	if vr.Valid || len(vr.Errors) == 0 {
		return nil
	}
	first := vr.Errors[0]
	return apperrors.NewValidationError(first.Field, first.Message)
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}
