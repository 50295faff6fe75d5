package analyses

import (
	"math"
	"strings"
)

// Thresholds are the pass criteria for the cognitive-level distribution,
// expressed as percentages of classifiable questions.
type Thresholds struct {
	// LowMax caps the Remember/Understand share.
	LowMax float64
	// MidMin floors the Apply/Analyze share.
	MidMin float64
	// HighMin floors the Evaluate/Create share.
	HighMin float64
}

// DefaultThresholds reflect a common exam-design guideline: at most 40%
// recall questions, at least half application-level, at least 10% at the
// highest levels.
var DefaultThresholds = Thresholds{LowMax: 40, MidMin: 50, HighMin: 10}

// bloomLevels are the canonical buckets, in taxonomy order.
var bloomLevels = []string{"Remember", "Understand", "Apply", "Analyze", "Evaluate", "Create"}

// BloomReport is the aggregate verdict over one run's records.
type BloomReport struct {
	Pass        bool               `json:"pass"`
	Reason      string             `json:"reason"`
	Percentages map[string]float64 `json:"percentages"`
	RawCounts   map[string]int     `json:"raw_counts"`
	ValidTotal  int                `json:"valid_total"`
}

// EvaluateBloom classifies each record's bloom_level by case-insensitive
// substring containment against the six canonical level names; anything else
// counts as Unknown and is excluded from the percentage base.
func EvaluateBloom(records []Record, th Thresholds) BloomReport {
	if len(records) == 0 {
		return BloomReport{
			Pass:        false,
			Reason:      "ไม่มีข้อมูลข้อสอบ",
			Percentages: map[string]float64{},
			RawCounts:   map[string]int{},
		}
	}

	counts := map[string]int{
		"Remember": 0, "Understand": 0, "Apply": 0,
		"Analyze": 0, "Evaluate": 0, "Create": 0, "Unknown": 0,
	}
	for _, rec := range records {
		counts[classifyBloom(rec.BloomLevel)]++
	}

	validTotal := len(records) - counts["Unknown"]
	if validTotal == 0 {
		return BloomReport{
			Pass:        false,
			Reason:      "ไม่มีข้อสอบที่สามารถวิเคราะห์ระดับความคิดได้เลย",
			Percentages: map[string]float64{},
			RawCounts:   counts,
		}
	}

	pct := func(n int) float64 {
		return math.Round(float64(n)/float64(validTotal)*1000) / 10
	}
	percentages := map[string]float64{
		"Remember/Understand": pct(counts["Remember"] + counts["Understand"]),
		"Apply/Analyze":       pct(counts["Apply"] + counts["Analyze"]),
		"Evaluate/Create":     pct(counts["Evaluate"] + counts["Create"]),
	}

	passed := percentages["Remember/Understand"] <= th.LowMax &&
		percentages["Apply/Analyze"] >= th.MidMin &&
		percentages["Evaluate/Create"] >= th.HighMin

	reason := "ชุดข้อสอบ **ไม่ผ่าน** เกณฑ์การกระจายระดับความคิด (Bloom)"
	if passed {
		reason = "ชุดข้อสอบ **ผ่าน** เกณฑ์การกระจายระดับความคิด (Bloom)"
	}

	return BloomReport{
		Pass:        passed,
		Reason:      reason,
		Percentages: percentages,
		RawCounts:   counts,
		ValidTotal:  validTotal,
	}
}

func classifyBloom(level string) string {
	lower := strings.ToLower(strings.TrimSpace(level))
	for _, name := range bloomLevels {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return "Unknown"
}
