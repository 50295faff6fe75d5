package analyses

import (
	"strings"
	"testing"
)

func recordsWithLevels(levels ...string) []Record {
	records := make([]Record, len(levels))
	for i, level := range levels {
		records[i] = Record{BloomLevel: level}
	}
	return records
}

func TestEvaluateBloomFailsOnRecallHeavySet(t *testing.T) {
	records := recordsWithLevels(
		"Remember", "Remember", "Remember", "Remember", "Remember",
		"Apply", "Apply", "Apply",
		"Create", "Create",
	)

	report := EvaluateBloom(records, DefaultThresholds)
	if report.ValidTotal != 10 {
		t.Fatalf("valid_total = %d, want 10", report.ValidTotal)
	}
	if report.Percentages["Remember/Understand"] != 50 {
		t.Errorf("low share = %v, want 50", report.Percentages["Remember/Understand"])
	}
	if report.Percentages["Apply/Analyze"] != 30 {
		t.Errorf("mid share = %v, want 30", report.Percentages["Apply/Analyze"])
	}
	if report.Percentages["Evaluate/Create"] != 20 {
		t.Errorf("high share = %v, want 20", report.Percentages["Evaluate/Create"])
	}
	if report.Pass {
		t.Error("50% recall questions must fail the 40% cap")
	}
}

func TestEvaluateBloomPassingSet(t *testing.T) {
	records := recordsWithLevels(
		"Remember", "Understand", "Understand",
		"Apply", "Apply", "Analyze", "Analyze", "Analyze",
		"Evaluate", "Create",
	)

	report := EvaluateBloom(records, DefaultThresholds)
	if !report.Pass {
		t.Errorf("expected pass, got %+v", report)
	}
	if !strings.Contains(report.Reason, "ผ่าน") {
		t.Errorf("reason should state the verdict: %q", report.Reason)
	}
}

func TestEvaluateBloomSubstringClassification(t *testing.T) {
	records := recordsWithLevels(
		"การประยุกต์ใช้ (Apply)",
		"apply level",
		"ANALYZE",
		"ขั้นสร้างสรรค์ (Create)",
	)

	report := EvaluateBloom(records, DefaultThresholds)
	if report.ValidTotal != 4 {
		t.Fatalf("valid_total = %d, want 4: %#v", report.ValidTotal, report.RawCounts)
	}
	if report.RawCounts["Apply"] != 2 || report.RawCounts["Analyze"] != 1 || report.RawCounts["Create"] != 1 {
		t.Errorf("raw counts = %#v", report.RawCounts)
	}
}

func TestEvaluateBloomUnknownExcludedFromBase(t *testing.T) {
	records := recordsWithLevels("Apply", "Apply", "ไม่สามารถระบุได้", "Create")

	report := EvaluateBloom(records, DefaultThresholds)
	if report.ValidTotal != 3 {
		t.Fatalf("valid_total = %d, want 3", report.ValidTotal)
	}
	if report.RawCounts["Unknown"] != 1 {
		t.Errorf("unknown count = %d, want 1", report.RawCounts["Unknown"])
	}
	if got := report.Percentages["Apply/Analyze"]; got != 66.7 {
		t.Errorf("mid share = %v, want 66.7", got)
	}
}

func TestEvaluateBloomDegenerateInputs(t *testing.T) {
	if report := EvaluateBloom(nil, DefaultThresholds); report.Pass || report.ValidTotal != 0 {
		t.Errorf("empty input should fail cleanly, got %+v", report)
	}

	report := EvaluateBloom(recordsWithLevels("???", "ไม่สามารถระบุได้"), DefaultThresholds)
	if report.Pass {
		t.Error("all-unknown input must fail")
	}
	if report.ValidTotal != 0 {
		t.Errorf("valid_total = %d, want 0", report.ValidTotal)
	}
	if len(report.Percentages) != 0 {
		t.Errorf("percentages should be empty, got %#v", report.Percentages)
	}
}
