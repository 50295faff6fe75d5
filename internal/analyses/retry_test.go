package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"exam-backend/internal/llm"
)

// scriptedClient returns one scripted result per call.
type scriptedClient struct {
	results []scriptedResult
	calls   int
}

type scriptedResult struct {
	response string
	err      error
}

func (c *scriptedClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	if c.calls >= len(c.results) {
		return "", errors.New("unscripted call")
	}
	r := c.results[c.calls]
	c.calls++
	return r.response, r.err
}

func (c *scriptedClient) Name() string { return "scripted" }

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestClassifyDelays(t *testing.T) {
	tests := []struct {
		name        string
		kind        failureKind
		attempt     int
		maxAttempts int
		retryable   bool
		delay       time.Duration
	}{
		{"parse attempt 1", failureParse, 1, 3, true, 2 * time.Second},
		{"parse attempt 2", failureParse, 2, 3, true, 4 * time.Second},
		{"parse delay capped", failureParse, 5, 6, true, 6 * time.Second},
		{"rate limit attempt 1", failureRateLimit, 1, 3, true, 10 * time.Second},
		{"rate limit attempt 2", failureRateLimit, 2, 3, true, 20 * time.Second},
		{"rate limit capped", failureRateLimit, 4, 6, true, 30 * time.Second},
		{"last attempt not retryable", failureParse, 3, 3, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := classify(tc.kind, tc.attempt, tc.maxAttempts)
			if d.retryable != tc.retryable {
				t.Fatalf("retryable = %v, want %v", d.retryable, tc.retryable)
			}
			if d.delay != tc.delay {
				t.Errorf("delay = %v, want %v", d.delay, tc.delay)
			}
		})
	}
}

func TestAnalyzeRecoversAfterRateLimit(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{
		{err: errors.New("gemini error 429 (RESOURCE_EXHAUSTED): quota exceeded")},
		{err: errors.New("gemini error 429 (RESOURCE_EXHAUSTED): quota exceeded")},
		{response: `{"bloom_level":"Apply","is_good_question":true}`},
	}}
	r := newRetrier(client, 3, noSleep)

	out, err := r.analyze(context.Background(), llm.Request{User: "q"}, "th")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if client.calls != 3 {
		t.Errorf("client called %d times, want 3", client.calls)
	}
	if out.failed {
		t.Error("success on the final attempt must not report failure")
	}
	if out.record.BloomLevel != "Apply" || !out.record.IsGoodQuestion {
		t.Errorf("unexpected record %#v", out.record)
	}
}

func TestAnalyzeQuotaExhaustion(t *testing.T) {
	rateLimited := scriptedResult{err: errors.New("too many requests")}
	client := &scriptedClient{results: []scriptedResult{rateLimited, rateLimited, rateLimited}}
	r := newRetrier(client, 3, noSleep)

	out, err := r.analyze(context.Background(), llm.Request{User: "q"}, "th")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !out.failed || !out.quotaFailed {
		t.Errorf("exhausted rate limits should mark quota failure, got %+v", out)
	}
	if out.record.BloomLevel != "ไม่สามารถระบุได้" {
		t.Errorf("quota record bloom_level = %q", out.record.BloomLevel)
	}
	if !strings.Contains(out.record.ImprovementSuggestion, "429") {
		t.Errorf("quota record should name the quota error: %q", out.record.ImprovementSuggestion)
	}
}

func TestAnalyzeParseFailureExhaustion(t *testing.T) {
	garbage := scriptedResult{response: "I will not answer in JSON."}
	client := &scriptedClient{results: []scriptedResult{garbage, garbage, garbage}}
	r := newRetrier(client, 3, noSleep)

	out, err := r.analyze(context.Background(), llm.Request{User: "q"}, "th")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !out.failed || out.quotaFailed {
		t.Errorf("parse exhaustion should be a plain failure, got %+v", out)
	}
	if !strings.Contains(out.record.ImprovementSuggestion, "invalid JSON") {
		t.Errorf("error record should name the failure class: %q", out.record.ImprovementSuggestion)
	}
}

func TestAnalyzeStopsOnCancelledContext(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{
		{err: errors.New("429 quota")},
		{response: `{"bloom_level":"Apply"}`},
	}}
	r := newRetrier(client, 3, sleepWith)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.analyze(ctx, llm.Request{User: "q"}, "th"); err == nil {
		t.Fatal("cancelled context should abort the retry loop")
	}
	if client.calls > 1 {
		t.Errorf("no further attempts after cancellation, got %d calls", client.calls)
	}
}
