package llm

import (
	"errors"
	"testing"
)

func TestRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"http 429", errors.New("gemini error 429 RESOURCE_EXHAUSTED: quota exceeded"), true},
		{"quota word", errors.New("You exceeded your current quota"), true},
		{"resource exhausted spaced", errors.New("resource exhausted for model"), true},
		{"too many requests", errors.New("openrouter error 0: Too Many Requests"), true},
		{"rate limit phrase", errors.New("Rate limit reached for model"), true},
		{"timeout", errors.New("groq request timeout: context deadline exceeded"), false},
		{"parse failure", errors.New("no JSON structure found in response"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RateLimited(tc.err); got != tc.want {
				t.Errorf("RateLimited(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
