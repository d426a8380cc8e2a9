// Package gemini implements summarization and token counting with Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/docsum"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements docsum.TextGenerator at compile time.
var _ docsum.TextGenerator = (*Generator)(nil)

// Models is the subset of genai.Models used by Generator.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements docsum.TextGenerator using Google Gemini.
type Generator struct {
	models Models
	model  string
}

// NewGenerator creates a Generator from a genai client.
func NewGenerator(client *genai.Client, model string) *Generator {
	return NewGeneratorWithModels(client.Models, model)
}

// NewGeneratorWithModels creates a Generator over any Models implementation.
func NewGeneratorWithModels(models Models, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: models, model: model}
}

// Generate sends prompt as a single user turn and returns the response text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", docsum.Errorf(docsum.EINVALID, "prompt required")
	}

	result, err := g.models.GenerateContent(ctx, g.model,
		userTurn(prompt),
		BuildConfig(),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", docsum.Errorf(docsum.EUNAVAILABLE, "gemini generate: %v", err)
	}
	if result == nil {
		return "", docsum.Errorf(docsum.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// Ping sends a minimal prompt to verify the API key and model.
func (g *Generator) Ping(ctx context.Context) error {
	_, err := g.Generate(ctx, "test")
	return err
}

// userTurn wraps text as the single user message of a request.
func userTurn(text string) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(text, "user")}
}

// BuildConfig returns the GenerateContentConfig for summary requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize software documentation pages for an index. Answer with the summary only.",
			}},
		},
		Temperature: &temp,
	}
}

var _ docsum.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes prompts offline with the tokenizer of a Gemini model.
// The summarizer uses it to clamp page text for every backend, so counts
// are approximate for non-Gemini models.
type TokenCounter struct {
	local *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the local tokenizer of model, failing with EINVALID
// when the model has none.
func NewTokenCounter(model string) (*TokenCounter, error) {
	local, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, docsum.Errorf(docsum.EINVALID, "tokenizer for %q: %v", model, err)
	}
	return &TokenCounter{local: local}, nil
}

// CountTokens sizes text as the user turn Generate would send.
func (c *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	res, err := c.local.CountTokens(userTurn(text), nil)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return int(res.TotalTokens), nil
}
