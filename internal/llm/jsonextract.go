package llm

import (
	"errors"
	"regexp"
	"strings"
)

var (
	openFenceRe  = regexp.MustCompile("^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
)

// ErrNoJSON is returned when no JSON structure can be located in a response.
var ErrNoJSON = errors.New("no JSON structure found in response")

// ExtractObject slices the first '{' through the last '}' out of a model
// response, tolerating Markdown code fences and leading or trailing
// commentary that models emit despite instructions.
func ExtractObject(raw string) (string, error) {
	return extract(raw, '{', '}')
}

// ExtractArray does the same for a top-level JSON array.
func ExtractArray(raw string) (string, error) {
	return extract(raw, '[', ']')
}

func extract(raw string, open, close byte) (string, error) {
	s := strings.TrimSpace(raw)
	s = openFenceRe.ReplaceAllString(s, "")
	s = closeFenceRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSON
	}
	return strings.TrimSpace(s[start : end+1]), nil
}
