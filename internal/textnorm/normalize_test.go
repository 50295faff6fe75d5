package textnorm

import (
	"strings"
	"testing"
)

func TestNormalizeThaiDigits(t *testing.T) {
	got := Normalize("ข้อ ๑. คำตอบคือ ๔๒")
	if !strings.Contains(got, "1.") {
		t.Fatalf("expected Thai digits mapped to Arabic, got %q", got)
	}
	if !strings.Contains(got, "42") {
		t.Fatalf("expected ๔๒ mapped to 42, got %q", got)
	}
}

func TestNormalizeGluesMarkers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "choice letter", in: "ก . คำตอบ", want: "ก. คำตอบ"},
		{name: "latin choice", in: "A . answer", want: "A. answer"},
		{name: "question number", in: "1 . คำถาม", want: "1. คำถาม"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRecoversQuestionBoundaries(t *testing.T) {
	got := Normalize("What is one? ก. 1 ข. 2 2. What is two? ก. 1 ข. 2")
	if !strings.Contains(got, "\n2. ") {
		t.Fatalf("expected line break before question 2, got %q", got)
	}
}

func TestNormalizeCollapsesBlankLines(t *testing.T) {
	got := Normalize("a\n\n\n\nb")
	if got != "a\nb" {
		t.Fatalf("expected single newline between lines, got %q", got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"1 . คำถาม ก . หนึ่ง ข . สอง\r\n\n\n2) คำถามสอง",
		"ข้อ ๑. อะไรคือ ๒+๒ ก. 3 ข. 4",
		"Question one. 2. Question two A. yes B. no",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestStripAnswerKey(t *testing.T) {
	doc := "1. คำถาม ก. 1 ข. 2\n==========เฉลย==========\n1. ก"
	got := StripAnswerKey(doc)
	if strings.Contains(got, "เฉลย") {
		t.Fatalf("expected answer key section stripped, got %q", got)
	}
	if !strings.Contains(got, "คำถาม") {
		t.Fatalf("expected question text preserved, got %q", got)
	}
}

func TestStripAnswerKeyAbsent(t *testing.T) {
	doc := "1. คำถาม ก. 1 ข. 2"
	if got := StripAnswerKey(doc); got != doc {
		t.Fatalf("expected text unchanged without answer key, got %q", got)
	}
}
