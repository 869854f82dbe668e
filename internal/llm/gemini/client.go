package gemini

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"

	"resume-ranker/internal/llm"
	"resume-ranker/internal/shared/telemetry"
)

// DefaultModel is used when the catalog cannot be listed or lists nothing
// that supports generateContent.
const DefaultModel = "models/gemini-2.0-flash"

const generateAction = "generateContent"

// preferredModels in probe order, newest flash first.
var preferredModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

// Client implements llm.Client using the Gemini API. The model is resolved
// once at construction and reused for every completion.
type Client struct {
	api   *genai.Client
	model string
}

// NewClient connects to Gemini. When model is empty, a usable model is
// auto-detected from the account's catalog.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, llm.ErrUnconfigured
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	c := &Client{api: api, model: strings.TrimSpace(model)}
	if c.model == "" {
		c.model = c.detectModel(ctx)
	}
	telemetry.Info("gemini.model.selected", map[string]any{"model": c.model})
	return c, nil
}

// Model reports the model name completions are sent to.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one prompt and returns the raw model text. The model is
// asked for JSON output; callers still normalize whatever comes back.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

// ListModels returns the name of every model visible to the API key.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	catalog, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		names = append(names, entry.Name)
	}
	return names, nil
}

func (c *Client) detectModel(ctx context.Context) string {
	catalog, err := c.catalog(ctx)
	if err != nil {
		telemetry.Warn("gemini.models.list_failed", map[string]any{
			"error": err.Error(),
			"model": DefaultModel,
		})
		return DefaultModel
	}
	return resolveModel(catalog)
}

func (c *Client) catalog(ctx context.Context) ([]catalogEntry, error) {
	var entries []catalogEntry
	for model, err := range c.api.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		entries = append(entries, catalogEntry{
			Name:    model.Name,
			Actions: model.SupportedActions,
		})
	}
	return entries, nil
}

// catalogEntry is the slice of the model catalog the probe needs.
type catalogEntry struct {
	Name    string
	Actions []string
}

func (e catalogEntry) supportsGenerate() bool {
	return slices.Contains(e.Actions, generateAction)
}

// resolveModel picks the first preferred flash model present in the catalog,
// then any model that supports generateContent, then DefaultModel.
func resolveModel(catalog []catalogEntry) string {
	for _, name := range preferredModels {
		for _, entry := range catalog {
			if entry.Name == "models/"+name && entry.supportsGenerate() {
				return entry.Name
			}
		}
	}
	for _, entry := range catalog {
		if entry.supportsGenerate() {
			return entry.Name
		}
	}
	return DefaultModel
}

var (
	_ llm.Client      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)
