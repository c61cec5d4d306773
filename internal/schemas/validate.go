// Package schemas provides JSON Schema validation for story packs and other JSON artifacts.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/match-storyteller/internal/types"
	storyschemas "github.com/jonathan/match-storyteller/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ResolveSchemaPath finds relativePath from the working directory or one of
// its two parents, so commands run from cmd/ or internal/ still find
// repo-root schemas. Returns the absolute path, or "" when none exists.
func ResolveSchemaPath(relativePath string) string {
	dir := "."
	for range 3 {
		candidate, err := filepath.Abs(filepath.Join(dir, relativePath))
		if err == nil {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		dir = filepath.Join(dir, "..")
	}
	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	// Resolve absolute paths to handle relative paths correctly
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	// Check if files exist
	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	// Load schema
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaAbsPath)

	// Load JSON document
	documentLoader := gojsonschema.NewReferenceLoader("file://" + jsonAbsPath)

	// Validate
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// Check if it's a schema loading error (e.g., can't resolve $ref, invalid schema syntax)
		// vs a document loading error
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return fromResult(result)
}

// ValidateStoryPack marshals the pack and validates it against the story schema.
// An empty schemaPath selects the schema embedded in the binary.
func ValidateStoryPack(pack *types.StoryPack, schemaPath string) error {
	if pack == nil {
		return fmt.Errorf("story pack is nil")
	}
	data, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("failed to marshal story pack: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(storyschemas.Story)
	source := "(embedded " + storyschemas.StorySchemaFile + ")"
	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to resolve schema path: %w", err)
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", absPath)
		}
		schemaLoader = gojsonschema.NewReferenceLoader("file://" + absPath)
		source = absPath
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SchemaLoadError{
			Path:    source,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return fromResult(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return fromResult(result)
}

func fromResult(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
