package captions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/match-storyteller/internal/llm"
	"github.com/jonathan/match-storyteller/internal/prompts"
	"github.com/jonathan/match-storyteller/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// SystemPrompt is sent as the system instruction for every caption request.
var SystemPrompt = prompts.MustGet(prompts.System)

// DefaultRequestInterval spaces consecutive LLM requests.
const DefaultRequestInterval = 500 * time.Millisecond

var (
	errEmptyCaption  = errors.New("empty caption")
	errNoAssets      = errors.New("asset catalog is empty")
	errUnknownAsset  = errors.New("answer does not name a catalog asset")
	errEmptyResponse = errors.New("empty asset answer")
)

// LLMCaptioner captions events through an llm.Client. Requests are made
// sequentially and paced by a rate limiter.
type LLMCaptioner struct {
	client  llm.Client
	roster  *Roster
	catalog *AssetCatalog
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// Option configures an LLMCaptioner.
type Option func(*LLMCaptioner)

// WithRoster resolves player and team references in event descriptions.
func WithRoster(r *Roster) Option {
	return func(c *LLMCaptioner) { c.roster = r }
}

// WithCatalog enables asset matching against catalog.
func WithCatalog(catalog *AssetCatalog) Option {
	return func(c *LLMCaptioner) { c.catalog = catalog }
}

// WithRequestInterval sets the minimum spacing between LLM requests. Zero disables pacing.
func WithRequestInterval(d time.Duration) Option {
	return func(c *LLMCaptioner) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger used to report absorbed failures.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *LLMCaptioner) { c.logger = logger }
}

// NewLLMCaptioner creates a captioner backed by client.
func NewLLMCaptioner(client llm.Client, opts ...Option) *LLMCaptioner {
	c := &LLMCaptioner{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(DefaultRequestInterval), 1),
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Caption returns the asset and caption for an event. It never fails:
// when only the caption succeeds the placeholder asset is returned, and when
// the caption fails both fields are empty.
func (c *LLMCaptioner) Caption(ctx context.Context, ev types.Event) types.Caption {
	description := c.roster.Describe(ev)
	log := c.logger.WithField("type", ev.Type).WithField("minute", ev.Minute.Int())

	asset, assetErr := c.matchAsset(ctx, description)
	if assetErr != nil {
		log.WithError(assetErr).Warn("asset matching failed")
	}

	text, textErr := c.caption(ctx, description)
	if textErr != nil {
		log.WithError(textErr).Warn("caption generation failed")
		return types.Caption{}
	}

	if assetErr != nil {
		return types.Caption{Asset: types.PlaceholderImage, Text: text}
	}

	log.WithField("asset", asset).Debug("event captioned")
	return types.Caption{Asset: asset, Text: text}
}

func (c *LLMCaptioner) caption(ctx context.Context, description string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	text, err := c.client.GenerateContent(ctx, description, llm.TierStandard)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyCaption
	}
	return text, nil
}

func (c *LLMCaptioner) matchAsset(ctx context.Context, description string) (string, error) {
	if c.catalog == nil || len(c.catalog.Assets) == 0 {
		return "", errNoAssets
	}

	prompt, err := buildAssetPrompt(c.catalog, description)
	if err != nil {
		return "", err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	answer, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", err
	}

	filename := parseAssetAnswer(answer)
	if filename == "" {
		return "", errEmptyResponse
	}

	resolved, ok := c.catalog.Resolve(filename)
	if !ok {
		return "", fmt.Errorf("%w: %q", errUnknownAsset, filename)
	}
	return resolved, nil
}

func buildAssetPrompt(catalog *AssetCatalog, description string) (string, error) {
	assets, err := json.Marshal(catalog.Assets)
	if err != nil {
		return "", fmt.Errorf("failed to encode asset catalog: %w", err)
	}

	template, err := prompts.Get(prompts.MatchAsset)
	if err != nil {
		return "", err
	}
	return prompts.Format(template, map[string]string{
		"Assets": string(assets),
		"Event":  description,
	}), nil
}

// parseAssetAnswer accepts {"filename": "..."} or a bare file name.
func parseAssetAnswer(answer string) string {
	cleaned := llm.CleanJSONBlock(answer)

	var parsed struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return strings.TrimSpace(parsed.Filename)
	}
	return llm.CleanText(cleaned)
}
