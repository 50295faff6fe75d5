// Package gemini implements llm.Client against the Google Generative
// Language API. It is the only provider that can enforce the analysis
// record schema natively (responseSchema on generationConfig).
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"exam-backend/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client implements llm.Client using Gemini generateContent.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required for Gemini")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "gemini" }

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	Temperature      *float32       `json:"temperature,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// recordSchema mirrors the 10-field analysis record so Gemini enforces the
// shape server-side instead of relying on prompt discipline alone.
var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"bloom_level":             map[string]any{"type": "string"},
		"reasoning":               map[string]any{"type": "string"},
		"difficulty":              map[string]any{"type": "string"},
		"curriculum_standard":     map[string]any{"type": "string"},
		"correct_option":          map[string]any{"type": "string"},
		"correct_option_analysis": map[string]any{"type": "string"},
		"distractor_analysis":     map[string]any{"type": "string"},
		"why_good_distractor":     map[string]any{"type": "string"},
		"is_good_question":        map[string]any{"type": "boolean"},
		"improvement_suggestion":  map[string]any{"type": "string"},
	},
	"required": []string{
		"bloom_level", "reasoning", "difficulty", "curriculum_standard",
		"correct_option", "correct_option_analysis", "distractor_analysis",
		"why_good_distractor", "is_good_question", "improvement_suggestion",
	},
}

// Generate calls generateContent and returns the raw response text.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	temp := req.Temperature
	cfg := &generationConfig{
		Temperature:     &temp,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.ForceJSON || req.RecordSchema {
		cfg.ResponseMimeType = "application/json"
	}
	if req.RecordSchema {
		cfg.ResponseSchema = recordSchema
	}

	body := generateRequest{
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: req.User}}},
		},
		GenerationConfig: cfg,
	}
	if strings.TrimSpace(req.System) != "" {
		body.SystemInstruction = &generateContent{Parts: []generatePart{{Text: req.System}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("gemini request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini response parse (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		// Include code and status so quota errors stay detectable by text.
		return "", fmt.Errorf("gemini error %d (%s): %s", parsed.Error.Code, parsed.Error.Status, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}

	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return content, nil
}

var _ llm.Client = (*Client)(nil)
