package llm

import "strings"

// RateLimited reports whether err looks like provider quota exhaustion.
// Providers do not share a typed error hierarchy, so this matches the
// error text against the 429 phrasings observed across all three APIs.
func RateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "resourceexhausted") ||
		strings.Contains(msg, "too many requests") {
		return true
	}
	return strings.Contains(msg, "rate") && strings.Contains(msg, "limit")
}
