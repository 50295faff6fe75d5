package analyses

import (
	"fmt"
	"strings"
)

// Record is the fixed 10-field analysis result for one question. After
// Sanitize every field is populated; IsGoodQuestion is always a real boolean.
type Record struct {
	BloomLevel            string `json:"bloom_level"`
	Reasoning             string `json:"reasoning"`
	Difficulty            string `json:"difficulty"`
	CurriculumStandard    string `json:"curriculum_standard"`
	CorrectOption         string `json:"correct_option"`
	CorrectOptionAnalysis string `json:"correct_option_analysis"`
	DistractorAnalysis    string `json:"distractor_analysis"`
	WhyGoodDistractor     string `json:"why_good_distractor"`
	IsGoodQuestion        bool   `json:"is_good_question"`
	ImprovementSuggestion string `json:"improvement_suggestion"`
}

// recordKeys is the canonical key order of the analysis record.
var recordKeys = []string{
	"bloom_level", "reasoning", "difficulty", "curriculum_standard",
	"correct_option", "correct_option_analysis", "distractor_analysis",
	"why_good_distractor", "is_good_question", "improvement_suggestion",
}

// affirmatives are the string spellings coerced to true for
// is_good_question, including the Thai words for "true" and "yes".
var affirmatives = map[string]struct{}{
	"true": {}, "yes": {}, "1": {}, "correct": {}, "จริง": {}, "ใช่": {},
}

type placeholders struct {
	unspecified   string
	noSuggestions string
	unidentified  string
	unassessable  string
	analysisError string
	errorPrefix   string
}

var placeholdersByLang = map[string]placeholders{
	"th": {
		unspecified:   "ไม่ระบุ",
		noSuggestions: "ไม่มีข้อเสนอแนะเพิ่มเติม",
		unidentified:  "ไม่สามารถระบุได้",
		unassessable:  "ไม่สามารถประเมินได้",
		analysisError: "AI วิเคราะห์ล้มเหลว",
		errorPrefix:   "**เกิดข้อผิดพลาด**",
	},
	"en": {
		unspecified:   "Unspecified",
		noSuggestions: "No additional suggestions",
		unidentified:  "Unidentified",
		unassessable:  "Unassessable",
		analysisError: "AI analysis failed",
		errorPrefix:   "**Error**",
	},
}

func placeholderSet(lang string) placeholders {
	if p, ok := placeholdersByLang[strings.ToLower(lang)]; ok {
		return p
	}
	return placeholdersByLang["th"]
}

// Sanitize turns an arbitrary parsed JSON object into a complete Record.
// Missing or null keys get language-appropriate placeholders, extra keys are
// ignored, and is_good_question is coerced from common string spellings.
// It never fails; sanitizing an already-sanitized record changes nothing.
func Sanitize(raw map[string]any, lang string) Record {
	ph := placeholderSet(lang)

	get := func(key string) string {
		val, ok := raw[key]
		if !ok || val == nil {
			return ph.unspecified
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", val))
		if s == "" || s == "null" {
			return ph.unspecified
		}
		return s
	}

	rec := Record{
		BloomLevel:            get("bloom_level"),
		Reasoning:             get("reasoning"),
		Difficulty:            get("difficulty"),
		CurriculumStandard:    get("curriculum_standard"),
		CorrectOption:         get("correct_option"),
		CorrectOptionAnalysis: get("correct_option_analysis"),
		DistractorAnalysis:    get("distractor_analysis"),
		WhyGoodDistractor:     get("why_good_distractor"),
		ImprovementSuggestion: get("improvement_suggestion"),
	}

	switch v := raw["is_good_question"].(type) {
	case bool:
		rec.IsGoodQuestion = v
	case string:
		_, rec.IsGoodQuestion = affirmatives[strings.ToLower(strings.TrimSpace(v))]
	default:
		rec.IsGoodQuestion = false
	}

	// A placeholder suggestion is useless to a teacher; say explicitly that
	// the model had nothing to add.
	if rec.ImprovementSuggestion == ph.unspecified {
		rec.ImprovementSuggestion = ph.noSuggestions
	}

	return rec
}

// asMap renders a Record back into the canonical JSON-key map shape.
func (r Record) asMap() map[string]any {
	return map[string]any{
		"bloom_level":             r.BloomLevel,
		"reasoning":               r.Reasoning,
		"difficulty":              r.Difficulty,
		"curriculum_standard":     r.CurriculumStandard,
		"correct_option":          r.CorrectOption,
		"correct_option_analysis": r.CorrectOptionAnalysis,
		"distractor_analysis":     r.DistractorAnalysis,
		"why_good_distractor":     r.WhyGoodDistractor,
		"is_good_question":        r.IsGoodQuestion,
		"improvement_suggestion":  r.ImprovementSuggestion,
	}
}

// ErrorRecord builds the complete record used when analysis of a question
// ultimately failed. reason names the underlying error class.
func ErrorRecord(reason, lang string) Record {
	ph := placeholderSet(lang)
	return Record{
		BloomLevel:            ph.unidentified,
		Reasoning:             ph.analysisError,
		Difficulty:            ph.unassessable,
		CurriculumStandard:    ph.unidentified,
		CorrectOption:         ph.unspecified,
		CorrectOptionAnalysis: ph.unspecified,
		DistractorAnalysis:    ph.unspecified,
		WhyGoodDistractor:     ph.unspecified,
		IsGoodQuestion:        false,
		ImprovementSuggestion: ph.errorPrefix + ": " + reason,
	}
}

// QuotaExceededRecord marks a question that was never analyzed because the
// provider quota ran out, so reports can separate it from true failures.
func QuotaExceededRecord(lang string) Record {
	return ErrorRecord("Provider quota exceeded (429)", lang)
}
