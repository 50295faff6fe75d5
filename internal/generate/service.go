// Package generate produces new exam questions and improved rewrites of
// existing ones through the configured LLM provider.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"exam-backend/internal/llm"
)

const (
	defaultCount = 5
	maxCount     = 20
)

// GeneratedQuestion is one model-produced multiple-choice question.
type GeneratedQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Service runs generation and improvement prompts.
type Service struct {
	Clients         map[string]llm.Client
	DefaultProvider string
}

func (s *Service) client(provider string) (llm.Client, error) {
	if provider == "" {
		provider = s.DefaultProvider
	}
	c, ok := s.Clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llm.ErrNotConfigured, provider)
	}
	return c, nil
}

// Generate creates count new questions for the subject at the given Bloom
// level and difficulty.
func (s *Service) Generate(ctx context.Context, provider, subject, bloomLevel, difficulty string, count int) ([]GeneratedQuestion, error) {
	client, err := s.client(provider)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}
	if difficulty == "" {
		difficulty = "ปานกลาง"
	}

	raw, err := client.Generate(ctx, llm.Request{
		User:        llm.BuildGenerationPrompt(subject, bloomLevel, difficulty, count),
		ForceJSON:   true,
		Temperature: 0.7,
		MaxTokens:   8192,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	payload, err := llm.ExtractArray(raw)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil, fmt.Errorf("generate questions: parse: %w", err)
	}
	return questions, nil
}

// Improve rewrites a question according to an improvement suggestion,
// typically one taken from an analysis record. Returns the rewritten
// question as plain text.
func (s *Service) Improve(ctx context.Context, provider, questionText, suggestion string) (string, error) {
	client, err := s.client(provider)
	if err != nil {
		return "", err
	}

	raw, err := client.Generate(ctx, llm.Request{
		User:        llm.BuildImprovementPrompt(questionText, suggestion),
		Temperature: 0.5,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("improve question: %w", err)
	}
	improved := strings.TrimSpace(raw)
	if improved == "" {
		return "", fmt.Errorf("improve question: empty response")
	}
	return improved, nil
}
