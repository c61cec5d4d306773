package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/match-storyteller/internal/captions"
	"github.com/jonathan/match-storyteller/internal/config"
	"github.com/jonathan/match-storyteller/internal/llm"
	"github.com/jonathan/match-storyteller/internal/observability"
	"github.com/jonathan/match-storyteller/internal/ranking"
	"github.com/jonathan/match-storyteller/internal/schemas"
	"github.com/jonathan/match-storyteller/internal/scoring"
	"github.com/jonathan/match-storyteller/internal/story"
	"github.com/jonathan/match-storyteller/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a story pack from a match feed",
	Long: `Scores every event of a match feed against a weight table, keeps the top events in chronological order and writes a StoryPack JSON file.

Configuration can be loaded from a YAML or JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	generateConfigPath      string
	generateEvents          string
	generateWeights         string
	generateOut             string
	generateSchema          string
	generateAssets          string
	generateSquads          []string
	generateMaxPages        int
	generateStrict          bool
	generateLenient         bool
	generateCaptions        bool
	generateOfflineCaptions bool
	generateAPIKey          string
	generateModel           string
	generateRequestInterval time.Duration
	generateVerbose         bool
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to a YAML or JSON config file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&generateEvents, "events", "e", config.DefaultEvents, "Path to the match feed JSON file")
	generateCmd.Flags().StringVarP(&generateWeights, "weights", "w", config.DefaultWeights, "Path to the weight table (JSON or YAML)")
	generateCmd.Flags().StringVarP(&generateOut, "output", "o", config.DefaultOut, "Path of the StoryPack JSON file to write (--out is accepted too)")
	generateCmd.Flags().StringVar(&generateSchema, "schema", "", "StoryPack schema to validate against (defaults to the embedded schema)")
	generateCmd.Flags().IntVar(&generateMaxPages, "max-pages", 0, "Override the weight table's max_pages")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "Validate the story pack against the schema and refuse to write it on failure")
	generateCmd.Flags().BoolVar(&generateLenient, "lenient", false, "Skip schema validation (default)")
	generateCmd.MarkFlagsMutuallyExclusive("strict", "lenient")

	generateCmd.Flags().BoolVar(&generateCaptions, "captions", false, "Ask Gemini for an asset and caption for every highlight")
	generateCmd.Flags().BoolVar(&generateOfflineCaptions, "offline-captions", false, "Caption highlights with their own commentary and the placeholder image, without calling Gemini")
	generateCmd.Flags().StringVar(&generateAssets, "assets", config.DefaultAssets, "Asset description catalog used for caption asset matching")
	generateCmd.Flags().StringArrayVar(&generateSquads, "squad", nil, "Squad file used to resolve player and team names (repeatable)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Override the Gemini model used for both asset matching and captions")
	generateCmd.Flags().DurationVar(&generateRequestInterval, "request-interval", captions.DefaultRequestInterval, "Minimum spacing between caption requests")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	generateCmd.Flags().SetNormalizeFunc(outputAlias)

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Load config file if provided
	var cfg config.Config
	if generateConfigPath != "" {
		loadedCfg, err := config.LoadConfig(generateConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	flags := cmd.Flags()
	if flags.Changed("events") {
		cfg.Events = generateEvents
	}
	if flags.Changed("weights") {
		cfg.Weights = generateWeights
	}
	if flags.Changed("output") {
		cfg.Out = generateOut
	}
	if flags.Changed("schema") {
		cfg.Schema = generateSchema
	}
	cfg.Schema = resolveSchema(cfg.Schema)
	if flags.Changed("assets") {
		cfg.Assets = generateAssets
	}
	if flags.Changed("squad") {
		cfg.Squads = generateSquads
	}
	if flags.Changed("max-pages") {
		cfg.MaxPages = generateMaxPages
	}
	if flags.Changed("strict") {
		cfg.Strict = generateStrict
	}
	if flags.Changed("lenient") && generateLenient {
		cfg.Strict = false
	}
	if flags.Changed("captions") {
		cfg.Captions = generateCaptions
	}
	if flags.Changed("offline-captions") {
		cfg.OfflineCaptions = generateOfflineCaptions
	}
	if flags.Changed("model") {
		cfg.Model = generateModel
	}
	if flags.Changed("request-interval") {
		cfg.RequestInterval = generateRequestInterval
	}
	if flags.Changed("api-key") {
		cfg.APIKey = generateAPIKey
	}
	if flags.Changed("verbose") {
		cfg.Verbose = generateVerbose
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Defaults()
	defaults.RequestInterval = captions.DefaultRequestInterval
	cfg = cfg.MergeWithDefaults(defaults)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)

	// Step 4: Optional caption collaborator
	captioner, closeCaptioner, err := newCaptioner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCaptioner(); err != nil {
			logger.WithError(err).Warn("failed to close caption client")
		}
	}()

	pack, err := generateStory(ctx, cfg, captioner, logger, os.Stdout)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully generated story pack %s with %d pages to %s\n", pack.PackID, len(pack.Pages), cfg.Out)
	return nil
}

// outputAlias keeps --out working alongside --output.
func outputAlias(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "out" {
		name = "output"
	}
	return pflag.NormalizedName(name)
}

// newCaptioner builds the caption collaborator. Offline captions win over
// Gemini captions and need no API key. The returned close function is always
// safe to call.
func newCaptioner(ctx context.Context, cfg config.Config, logger *logrus.Logger) (story.Captioner, func() error, error) {
	noop := func() error { return nil }
	if cfg.OfflineCaptions {
		return captions.Placeholder{}, noop, nil
	}
	if !cfg.Captions {
		return nil, noop, nil
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, noop, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required for --captions")
	}

	roster, err := captions.LoadRoster(cfg.Squads...)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to load squads: %w", err)
	}

	opts := []captions.Option{
		captions.WithRoster(roster),
		captions.WithRequestInterval(cfg.RequestInterval),
		captions.WithLogger(logger),
	}
	catalog, err := captions.LoadAssetCatalog(cfg.Assets)
	if err != nil {
		logger.WithError(err).Warn("asset catalog unavailable; highlights keep the placeholder image")
	} else {
		opts = append(opts, captions.WithCatalog(catalog))
	}

	client, err := llm.NewClient(ctx, captionLLMConfig(cfg.Model), cfg.APIKey)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create caption client: %w", err)
	}

	return captions.NewLLMCaptioner(client, opts...), client.Close, nil
}

// captionLLMConfig returns the caption client config. A non-empty model
// replaces the default for every tier the captioner requests.
func captionLLMConfig(model string) *llm.Config {
	llmConfig := llm.DefaultConfig().WithSystemInstruction(captions.SystemPrompt)
	if model != "" {
		llmConfig = llmConfig.WithModel(llm.TierLite, model).WithModel(llm.TierStandard, model)
	}
	return llmConfig
}

// generateStory runs the pipeline for one match and writes the story pack to cfg.Out.
// In strict mode a pack that fails validation is not written.
func generateStory(ctx context.Context, cfg config.Config, captioner story.Captioner, logger *logrus.Logger, stdout io.Writer) (*types.StoryPack, error) {
	weights, err := config.LoadWeights(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	if cfg.MaxPages > 0 {
		weights.MaxSelectedEvents = cfg.MaxPages
	}

	feed, err := config.LoadMatchFeed(cfg.Events)
	if err != nil {
		return nil, fmt.Errorf("failed to load match events: %w", err)
	}

	log := logger.WithField("match", feed.MatchInfo.ID)
	log.WithField("events", len(feed.Events())).Debug("match feed loaded")

	printer := observability.NewPrinter(stdout)
	if cfg.Verbose {
		printer.PrintWeightTable(weights)
		selected := ranking.Select(ranking.ScoreEvents(feed.Events(), scoring.TypeAliases, weights), weights)
		printer.PrintRankedEvents(selected, len(feed.Events()))
	}

	pack := story.BuildStoryPack(ctx, feed, weights, story.BuildOptions{
		Source:    cfg.Events,
		Captioner: captioner,
	})

	if cfg.Strict {
		if err := validatePack(pack, cfg.Schema); err != nil {
			log.WithError(err).Error("story pack failed validation")
			if cfg.Verbose {
				printer.PrintValidation(err)
			}
			return nil, fmt.Errorf("story pack failed validation; %s was not written: %w", cfg.Out, err)
		}
		log.Debug("story pack matches schema")
	} else if err := pack.Validate(); err != nil {
		log.WithError(err).Warn("story pack is incomplete; writing it anyway")
	}

	if err := writeJSON(cfg.Out, pack); err != nil {
		return nil, err
	}

	if cfg.Verbose {
		printer.PrintStoryPack(pack)
	}
	log.WithField("pages", len(pack.Pages)).WithField("out", cfg.Out).Info("story pack written")
	return pack, nil
}

func validatePack(pack *types.StoryPack, schemaPath string) error {
	if err := pack.Validate(); err != nil {
		return err
	}
	return schemas.ValidateStoryPack(pack, schemaPath)
}

// writeJSON writes v as indented JSON, creating the parent directory.
func writeJSON(path string, v any) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
