package analyses

import (
	"time"

	"exam-backend/internal/segment"
)

// Run statuses.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Run represents one exam analysis job from upload to report.
type Run struct {
	ID                string          `json:"id"`
	Filename          string          `json:"filename"`
	Provider          string          `json:"provider"`
	Model             string          `json:"model"`
	Language          string          `json:"language"`
	CustomPrompt      string          `json:"customPrompt,omitempty"`
	Status            string          `json:"status"`
	TotalQuestions    int             `json:"totalQuestions"`
	AnalyzedQuestions int             `json:"analyzedQuestions"`
	GoodQuestions     int             `json:"goodQuestions"`
	UsedFallback      bool            `json:"usedFallback"`
	Questions         []segment.Unit  `json:"questions,omitempty"`
	Records           []Record        `json:"records,omitempty"`
	Report            *BloomReport    `json:"report,omitempty"`
	Summary           map[string]any  `json:"summary,omitempty"`
	ErrorMessage      *string         `json:"errorMessage,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	StartedAt         *time.Time      `json:"startedAt,omitempty"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
}

// RunConfig carries the per-run knobs taken from the analyze request.
type RunConfig struct {
	Provider     string
	Model        string
	Language     string
	CustomPrompt string

	// Curriculum pins a named reference curriculum for this run. Empty
	// means whichever curriculum is currently active, if any.
	Curriculum string
}

// HistoryEntry is the compact listing shape for past runs.
type HistoryEntry struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	Provider       string     `json:"provider"`
	Status         string     `json:"status"`
	TotalQuestions int        `json:"totalQuestions"`
	GoodQuestions  int        `json:"goodQuestions"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}
