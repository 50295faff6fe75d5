package analyses

import (
	"testing"
)

func TestSanitizeFillsAllKeys(t *testing.T) {
	rec := Sanitize(map[string]any{}, "th")
	m := rec.asMap()
	if len(m) != len(recordKeys) {
		t.Fatalf("record has %d keys, want %d", len(m), len(recordKeys))
	}
	for _, key := range recordKeys {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if rec.BloomLevel != "ไม่ระบุ" {
		t.Errorf("missing bloom_level should default to placeholder, got %q", rec.BloomLevel)
	}
	if rec.IsGoodQuestion {
		t.Error("missing is_good_question must default to false")
	}
	if rec.ImprovementSuggestion != "ไม่มีข้อเสนอแนะเพิ่มเติม" {
		t.Errorf("placeholder suggestion should become no-suggestions message, got %q", rec.ImprovementSuggestion)
	}
}

func TestSanitizeBooleanCoercion(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want bool
	}{
		{"native true", true, true},
		{"native false", false, false},
		{"string true", "true", true},
		{"string TRUE with space", " TRUE ", true},
		{"string yes", "yes", true},
		{"string 1", "1", true},
		{"string correct", "correct", true},
		{"thai true", "จริง", true},
		{"thai yes", "ใช่", true},
		{"string no", "no", false},
		{"string false", "false", false},
		{"number", float64(1), false},
		{"nil", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := Sanitize(map[string]any{"is_good_question": tc.val}, "th")
			if rec.IsGoodQuestion != tc.want {
				t.Errorf("is_good_question %v coerced to %v, want %v", tc.val, rec.IsGoodQuestion, tc.want)
			}
		})
	}
}

func TestSanitizeStringCoercion(t *testing.T) {
	rec := Sanitize(map[string]any{
		"bloom_level":  "  Apply  ",
		"difficulty":   "null",
		"reasoning":    "",
		"correct_option": float64(2),
	}, "th")

	if rec.BloomLevel != "Apply" {
		t.Errorf("strings should be trimmed, got %q", rec.BloomLevel)
	}
	if rec.Difficulty != "ไม่ระบุ" {
		t.Errorf("literal \"null\" should become placeholder, got %q", rec.Difficulty)
	}
	if rec.Reasoning != "ไม่ระบุ" {
		t.Errorf("empty string should become placeholder, got %q", rec.Reasoning)
	}
	if rec.CorrectOption != "2" {
		t.Errorf("non-strings should be stringified, got %q", rec.CorrectOption)
	}
}

func TestSanitizeIgnoresExtraKeys(t *testing.T) {
	rec := Sanitize(map[string]any{
		"bloom_level": "Create",
		"confidence":  0.93,
		"model_notes": "none",
	}, "th")
	if rec.BloomLevel != "Create" {
		t.Errorf("got %q", rec.BloomLevel)
	}
	if len(rec.asMap()) != 10 {
		t.Errorf("extra keys leaked into the record: %#v", rec.asMap())
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	first := Sanitize(map[string]any{
		"bloom_level":      "Analyze",
		"is_good_question": "yes",
	}, "th")
	second := Sanitize(first.asMap(), "th")
	if first != second {
		t.Errorf("sanitize is not idempotent:\nfirst  %#v\nsecond %#v", first, second)
	}
}

func TestSanitizeEnglishPlaceholders(t *testing.T) {
	rec := Sanitize(map[string]any{}, "en")
	if rec.BloomLevel != "Unspecified" {
		t.Errorf("got %q", rec.BloomLevel)
	}
	if rec.ImprovementSuggestion != "No additional suggestions" {
		t.Errorf("got %q", rec.ImprovementSuggestion)
	}
}

func TestErrorRecord(t *testing.T) {
	rec := ErrorRecord("invalid JSON in model response", "th")
	if rec.BloomLevel != "ไม่สามารถระบุได้" {
		t.Errorf("got %q", rec.BloomLevel)
	}
	if rec.IsGoodQuestion {
		t.Error("error records are never good questions")
	}
	if rec.ImprovementSuggestion != "**เกิดข้อผิดพลาด**: invalid JSON in model response" {
		t.Errorf("got %q", rec.ImprovementSuggestion)
	}
}
