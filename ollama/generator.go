// Package ollama implements docsum.TextGenerator against a local Ollama
// server's chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/docsum"
)

// Defaults for a local Ollama install.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
)

// PingPrompt is the prompt sent by the liveness probe.
const PingPrompt = "test"

// Ensure Generator implements docsum.TextGenerator at compile time.
var _ docsum.TextGenerator = (*Generator)(nil)

// Generator sends prompts to Ollama's /api/chat endpoint.
type Generator struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewGenerator creates a Generator. Empty arguments select the defaults;
// a nil client means http.DefaultClient.
func NewGenerator(baseURL, model string, client *http.Client) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Generator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

// Model returns the model name sent with each request.
func (g *Generator) Model() string {
	return g.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

// Generate sends prompt as a single user message and returns the reply.
// Transport failures and non-200 statuses are EUNAVAILABLE.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", docsum.Errorf(docsum.EINVALID, "ollama chat request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", docsum.Errorf(docsum.EUNAVAILABLE, "ollama chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", docsum.Errorf(docsum.EUNAVAILABLE, "ollama chat: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", docsum.Errorf(docsum.EUNAVAILABLE, "ollama chat decode: %v", err)
	}
	if result.Error != "" {
		return "", docsum.Errorf(docsum.EUNAVAILABLE, "ollama chat: %s", result.Error)
	}
	return result.Message.Content, nil
}

// Ping verifies the server is reachable and the model answers.
func (g *Generator) Ping(ctx context.Context) error {
	if _, err := g.Generate(ctx, PingPrompt); err != nil {
		if docsum.ErrorCode(err) == docsum.EUNAVAILABLE {
			return docsum.Errorf(docsum.EUNAVAILABLE, "cannot reach Ollama at %s (run: ollama serve): %s", g.baseURL, docsum.ErrorMessage(err))
		}
		return err
	}
	return nil
}
