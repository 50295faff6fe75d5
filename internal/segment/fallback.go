package segment

import (
	"context"
	"encoding/json"
	"strings"

	"exam-backend/internal/llm"
	"exam-backend/internal/textnorm"
)

const (
	defaultMinQuestions = 2
	defaultMinTextLen   = 300

	// maxFallbackInput bounds how much text is sent to the model.
	maxFallbackInput = 20000
)

const resegmentInstruction = `You are an expert exam parser.
Please extract all exam questions from the following text and return them as a JSON list of strings.

Rules:
1. Capture the full question text including the question number and all options (e.g. "1. Question... A. Opt...").
2. Do not change the original text, just split it correctly.
3. If there are no clear questions, return an empty list.
4. Return ONLY raw JSON Array.`

// Segmenter combines the deterministic splitter with an optional LLM-assisted
// fallback. A nil Fallback client disables the second stage entirely.
type Segmenter struct {
	Fallback llm.Client

	// MinQuestions and MinTextLen tune the confidence predicate: the
	// fallback runs when the deterministic pass found fewer than
	// MinQuestions units and the input is longer than MinTextLen runes.
	MinQuestions int
	MinTextLen   int
}

func (s *Segmenter) minQuestions() int {
	if s.MinQuestions > 0 {
		return s.MinQuestions
	}
	return defaultMinQuestions
}

func (s *Segmenter) minTextLen() int {
	if s.MinTextLen > 0 {
		return s.MinTextLen
	}
	return defaultMinTextLen
}

// ShouldResegment reports whether the deterministic result is suspiciously
// sparse relative to the input size.
func (s *Segmenter) ShouldResegment(validCount, rawLen int) bool {
	if validCount == 0 && rawLen > 0 {
		return true
	}
	return validCount < s.minQuestions() && rawLen > s.minTextLen()
}

// Questions extracts question units from raw text. The second return value
// reports whether the AI fallback result was adopted.
func (s *Segmenter) Questions(ctx context.Context, rawText string) ([]Unit, bool) {
	units := Split(rawText)

	if s.Fallback == nil || !s.ShouldResegment(len(units), len([]rune(rawText))) {
		return units, false
	}

	cleaned := textnorm.Normalize(textnorm.StripAnswerKey(rawText))
	aiQuestions := s.resegment(ctx, cleaned)
	// The expensive result only wins when it strictly beats the cheap one.
	if len(aiQuestions) <= len(units) {
		return units, false
	}

	aiUnits := make([]Unit, 0, len(aiQuestions))
	for _, q := range aiQuestions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		aiUnits = append(aiUnits, Unit{
			Text:       q,
			Number:     leadingNumber(q),
			HasChoices: len(thaiChoiceRe.FindAllString(q, -1)) >= 2 || len(latinChoiceRe.FindAllString(q, -1)) >= 2,
		})
	}
	return aiUnits, true
}

// resegment asks the fallback model for a raw JSON array of question strings.
// Any failure degrades to nil so the deterministic result stands.
func (s *Segmenter) resegment(ctx context.Context, cleaned string) []string {
	input := cleaned
	if len([]rune(input)) > maxFallbackInput {
		input = string([]rune(input)[:maxFallbackInput])
	}

	raw, err := s.Fallback.Generate(ctx, llm.Request{
		System:    resegmentInstruction,
		User:      "Text to parse:\n" + input,
		ForceJSON: true,
	})
	if err != nil {
		return nil
	}

	payload, err := llm.ExtractArray(raw)
	if err != nil {
		return nil
	}

	var questions []string
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil
	}
	return questions
}
