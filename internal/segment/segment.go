// Package segment splits normalized exam text into individual question units.
//
// Segmentation is two-staged: a cheap deterministic pass driven by
// numbering-marker regexes, and an optional LLM-assisted fallback used when
// the deterministic result is suspiciously sparse for the input size.
package segment

import (
	"regexp"
	"strconv"
	"strings"

	"exam-backend/internal/textnorm"
)

const (
	// minUnitLength discards marker-only noise chunks.
	minUnitLength = 5
	// minOpenEndedLength is the shortest chunk accepted without choice markers.
	minOpenEndedLength = 10
)

// Unit is one extracted exam question, in document order.
type Unit struct {
	Text       string `json:"text"`
	Number     int    `json:"number,omitempty"`
	HasChoices bool   `json:"has_choices"`
}

var (
	// Matches the four numbering idioms at line start: "1.", "1)", "(1)",
	// "ข้อ 1" / "ข้อที่ 1". Numbers are limited to 1-2 digits so numeric
	// content mid-question ("ข้อมูล 2563") is not mistaken for a marker.
	markerRe = regexp.MustCompile(`(?m)^[ \t]*(?:ข้อ(?:ที่)?[ \t]*\d{1,2}|\(\d{1,2}\)|\d{1,2}[.)])`)

	thaiChoiceRe  = regexp.MustCompile(`[ก-ง]\.`)
	latinChoiceRe = regexp.MustCompile(`[A-D]\.`)
	choiceBreakRe = regexp.MustCompile(`\s+([ก-งA-D]\.)`)
	leadNumberRe  = regexp.MustCompile(`^\(?(\d+)`)
)

// Split normalizes text, strips any answer-key section, and cuts it into
// validated question units. Units keep document order; chunks shorter than
// 5 runes are discarded as noise, and chunks without at least two choice
// markers must be longer than 10 runes to count as open-ended questions.
func Split(rawText string) []Unit {
	cleaned := textnorm.Normalize(textnorm.StripAnswerKey(rawText))
	if cleaned == "" {
		return nil
	}

	starts := markerRe.FindAllStringIndex(cleaned, -1)
	if len(starts) == 0 {
		return nil
	}

	var units []Unit
	for i, loc := range starts {
		end := len(cleaned)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		// Text before the first marker is document preamble and is dropped.
		chunk := strings.TrimSpace(cleaned[loc[0]:end])
		if unit, ok := validate(chunk); ok {
			units = append(units, unit)
		}
	}
	return units
}

// validate classifies one chunk as a question with choices, an open-ended
// question, or noise.
func validate(chunk string) (Unit, bool) {
	if len([]rune(chunk)) < minUnitLength {
		return Unit{}, false
	}

	thaiCount := len(thaiChoiceRe.FindAllString(chunk, -1))
	latinCount := len(latinChoiceRe.FindAllString(chunk, -1))

	unit := Unit{Number: leadingNumber(chunk)}

	if thaiCount >= 2 || latinCount >= 2 {
		// Put every choice on its own line for downstream rendering.
		unit.Text = choiceBreakRe.ReplaceAllString(chunk, "\n$1")
		unit.HasChoices = true
		return unit, true
	}

	if len([]rune(chunk)) > minOpenEndedLength {
		unit.Text = chunk
		return unit, true
	}

	return Unit{}, false
}

func leadingNumber(chunk string) int {
	s := chunk
	for _, prefix := range []string{"ข้อที่", "ข้อ"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}
	m := leadNumberRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
