package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/llm"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/metrics"
)

// Client implements llm.Client using the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a new Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Provider() string { return "gemini" }
func (c *Client) Model() string    { return c.model }

// AnalyzeJobDescription extracts job-posting fields as raw JSON.
func (c *Client) AnalyzeJobDescription(ctx context.Context, text string) (json.RawMessage, error) {
	return c.analyze(ctx, llm.JobDescriptionSystemPrompt, text)
}

// AnalyzeResume extracts resume fields as raw JSON.
func (c *Client) AnalyzeResume(ctx context.Context, text string) (json.RawMessage, error) {
	return c.analyze(ctx, llm.ResumeSystemPrompt, text)
}

func (c *Client) analyze(ctx context.Context, systemPrompt, text string) (json.RawMessage, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(text))
	metrics.ObserveLLMRequestDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini response missing candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, fmt.Errorf("gemini response empty content")
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("invalid JSON from Gemini")
	}
	return json.RawMessage(content), nil
}

var _ llm.Client = (*Client)(nil)
