package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/match-storyteller/internal/schemas"
	"github.com/jonathan/match-storyteller/internal/types"
	storyschemas "github.com/jonathan/match-storyteller/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a story pack file",
	Long:  "Validates a StoryPack JSON file against the story schema and the page ordering rules. Exits non-zero when the file is invalid.",
	RunE:  runValidate,
}

var (
	validateStoryPath  string
	validateSchemaPath string
)

func init() {
	validateCmd.Flags().StringVarP(&validateStoryPath, "story", "s", "", "Path to the StoryPack JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Schema to validate against (defaults to the embedded schema)")

	if err := validateCmd.MarkFlagRequired("story"); err != nil {
		panic(fmt.Sprintf("failed to mark story flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	return validateStoryFile(os.Stdout, validateStoryPath, resolveSchema(validateSchemaPath))
}

// resolveSchema lets --schema name a repo-relative file such as
// schemas/story.schema.json when the command runs from a subdirectory.
// Paths that exist as given, or cannot be found, are returned unchanged.
func resolveSchema(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if resolved := schemas.ResolveSchemaPath(path); resolved != "" {
		return resolved
	}
	return path
}

// validateStoryFile checks a story file against the schema, then decodes it
// and checks the rules the schema cannot express.
func validateStoryFile(stdout io.Writer, storyPath, schemaPath string) error {
	content, err := os.ReadFile(storyPath)
	if err != nil {
		return fmt.Errorf("failed to read story file %s: %w", storyPath, err)
	}

	if schemaPath != "" {
		err = schemas.ValidateJSON(schemaPath, storyPath)
	} else {
		err = schemas.ValidateJSONString(string(storyschemas.Story), string(content))
	}
	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(stdout, "Validation failed: %s\n", storyPath)
			for _, fe := range validationErr.Errors {
				_, _ = fmt.Fprintf(stdout, "  %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("validation found %d error(s)", len(validationErr.Errors))
		}
		return fmt.Errorf("failed to validate story file: %w", err)
	}

	var pack types.StoryPack
	if err := json.Unmarshal(content, &pack); err != nil {
		_, _ = fmt.Fprintf(stdout, "Validation failed: %s\n", storyPath)
		return fmt.Errorf("failed to decode story pack: %w", err)
	}
	if err := pack.Validate(); err != nil {
		_, _ = fmt.Fprintf(stdout, "Validation failed: %s\n", storyPath)
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Validation passed: %s (%d pages)\n", storyPath, len(pack.Pages))
	return nil
}
