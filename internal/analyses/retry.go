package analyses

import (
	"context"
	"encoding/json"
	"time"

	"exam-backend/internal/llm"
)

const defaultMaxAttempts = 3

// SleepFunc pauses between attempts. It returns early with the context error
// when ctx is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepWith(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// failureKind classifies one failed attempt.
type failureKind int

const (
	failureParse failureKind = iota
	failureRateLimit
	failureOther
)

// decision is the pure retry policy, separated from sleeping and calling so
// it can be tested without real delays.
type decision struct {
	retryable bool
	delay     time.Duration
}

// classify maps a failed attempt (1-based) to a retry decision. Parse and
// generic failures back off exponentially, capped at 6s. Rate limits wait
// much longer, 10s times the attempt number capped at 30s, because free-tier
// quotas reset on a per-minute window.
func classify(kind failureKind, attempt, maxAttempts int) decision {
	if attempt >= maxAttempts {
		return decision{}
	}
	switch kind {
	case failureRateLimit:
		d := time.Duration(10*attempt) * time.Second
		if d > 30*time.Second {
			d = 30 * time.Second
		}
		return decision{retryable: true, delay: d}
	default:
		d := time.Duration(1<<attempt) * time.Second
		if d > 6*time.Second {
			d = 6 * time.Second
		}
		return decision{retryable: true, delay: d}
	}
}

// retrier runs one question's provider call with bounded retries.
type retrier struct {
	client      llm.Client
	maxAttempts int
	sleep       SleepFunc
}

func newRetrier(client llm.Client, maxAttempts int, sleep SleepFunc) *retrier {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if sleep == nil {
		sleep = sleepWith
	}
	return &retrier{client: client, maxAttempts: maxAttempts, sleep: sleep}
}

// analyzeOutcome reports how one question's analysis concluded.
type analyzeOutcome struct {
	record      Record
	attempts    int
	quotaFailed bool
	failed      bool
}

// analyze calls the provider until it yields a sanitizable record or retries
// exhaust. It never returns an error: terminal failures become complete
// error records so one bad question cannot abort a run. The returned error
// is non-nil only for context cancellation.
func (r *retrier) analyze(ctx context.Context, req llm.Request, lang string) (analyzeOutcome, error) {
	var lastKind failureKind
	var lastReason string

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		raw, err := r.client.Generate(ctx, req)
		if err == nil {
			payload, perr := llm.ExtractObject(raw)
			if perr == nil {
				var parsed map[string]any
				if jerr := json.Unmarshal([]byte(payload), &parsed); jerr == nil {
					return analyzeOutcome{record: Sanitize(parsed, lang), attempts: attempt}, nil
				}
			}
			lastKind = failureParse
			lastReason = "invalid JSON in model response"
		} else {
			if ctx.Err() != nil {
				return analyzeOutcome{}, ctx.Err()
			}
			if llm.RateLimited(err) {
				lastKind = failureRateLimit
			} else {
				lastKind = failureOther
			}
			lastReason = err.Error()
		}

		d := classify(lastKind, attempt, r.maxAttempts)
		if !d.retryable {
			break
		}
		if serr := r.sleep(ctx, d.delay); serr != nil {
			return analyzeOutcome{}, serr
		}
	}

	if lastKind == failureRateLimit {
		return analyzeOutcome{
			record:      QuotaExceededRecord(lang),
			attempts:    r.maxAttempts,
			quotaFailed: true,
			failed:      true,
		}, nil
	}
	return analyzeOutcome{
		record:   ErrorRecord(lastReason, lang),
		attempts: r.maxAttempts,
		failed:   true,
	}, nil
}
