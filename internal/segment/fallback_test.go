package segment

import (
	"context"
	"errors"
	"testing"

	"exam-backend/internal/llm"
)

type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeClient) Name() string { return "fake" }

// longProse is dense text with no numbering markers, long enough to trip
// the sparse-result predicate.
func longProse() string {
	s := "บทความวิทยาศาสตร์เรื่องแรงโน้มถ่วงและการเคลื่อนที่ของวัตถุในสนามแรง "
	out := ""
	for len([]rune(out)) < 400 {
		out += s
	}
	return out
}

func TestShouldResegment(t *testing.T) {
	s := &Segmenter{MinQuestions: 2, MinTextLen: 300}

	tests := []struct {
		name       string
		validCount int
		rawLen     int
		want       bool
	}{
		{"nothing found in nonempty text", 0, 50, true},
		{"one unit in long text", 1, 500, true},
		{"one unit in short text", 1, 100, false},
		{"enough units", 2, 5000, false},
		{"empty input", 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.ShouldResegment(tc.validCount, tc.rawLen); got != tc.want {
				t.Errorf("ShouldResegment(%d, %d) = %v, want %v", tc.validCount, tc.rawLen, got, tc.want)
			}
		})
	}
}

func TestQuestionsAdoptsFallback(t *testing.T) {
	fake := &fakeClient{
		response: "```json\n[\"1. คำถามแรกจากโมเดล ก. หนึ่ง ข. สอง ค. สาม ง. สี่\", \"2. คำถามที่สองจากโมเดล\"]\n```",
	}
	s := &Segmenter{Fallback: fake}

	units, usedFallback := s.Questions(context.Background(), longProse())
	if !usedFallback {
		t.Fatal("fallback result should be adopted when it beats zero deterministic units")
	}
	if fake.calls != 1 {
		t.Errorf("fallback called %d times, want 1", fake.calls)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2: %#v", len(units), units)
	}
	if !units[0].HasChoices {
		t.Error("first fallback unit should carry choices")
	}
	if units[0].Number != 1 || units[1].Number != 2 {
		t.Errorf("fallback units lost their numbers: %#v", units)
	}
}

func TestQuestionsKeepsDeterministicWhenFallbackLoses(t *testing.T) {
	// Two deterministic units against a one-element AI result.
	text := "1. คำถามแรกแบบเขียนตอบที่ยาวพอ\n2. คำถามที่สองแบบเขียนตอบที่ยาวพอ"
	fake := &fakeClient{response: `["only one"]`}
	s := &Segmenter{Fallback: fake, MinQuestions: 5, MinTextLen: 10}

	units, usedFallback := s.Questions(context.Background(), text)
	if usedFallback {
		t.Error("a smaller AI result must not replace the deterministic one")
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
}

func TestQuestionsDegradesOnFallbackFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeClient
	}{
		{"provider error", &fakeClient{err: errors.New("boom")}},
		{"non-json reply", &fakeClient{response: "I found no questions."}},
		{"malformed array", &fakeClient{response: `["unterminated`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &Segmenter{Fallback: tc.fake}
			units, usedFallback := s.Questions(context.Background(), longProse())
			if usedFallback {
				t.Error("failed fallback must not be reported as used")
			}
			if len(units) != 0 {
				t.Errorf("expected no units, got %#v", units)
			}
		})
	}
}

func TestQuestionsWithoutFallbackClient(t *testing.T) {
	s := &Segmenter{}
	units, usedFallback := s.Questions(context.Background(), longProse())
	if usedFallback || len(units) != 0 {
		t.Errorf("nil fallback should leave the sparse result alone, got %#v used=%v", units, usedFallback)
	}
}
