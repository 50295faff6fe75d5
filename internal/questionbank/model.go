// Package questionbank stores curated questions collected from analysis runs
// for reuse in future exams.
package questionbank

import "time"

// Question is one saved exam question with its analysis metadata.
type Question struct {
	ID                 string    `json:"id"`
	QuestionText       string    `json:"questionText"`
	BloomLevel         string    `json:"bloomLevel"`
	Difficulty         string    `json:"difficulty"`
	Subject            string    `json:"subject"`
	CurriculumStandard string    `json:"curriculumStandard"`
	CorrectOption      string    `json:"correctOption"`
	SourceFilename     string    `json:"sourceFilename"`
	AddedAt            time.Time `json:"addedAt"`
}

// Stats summarizes the bank's composition.
type Stats struct {
	Total     int            `json:"total"`
	ByBloom   map[string]int `json:"byBloom"`
	BySubject map[string]int `json:"bySubject"`
}

// Filter narrows List results. Zero values mean no restriction.
type Filter struct {
	BloomLevel string
	Subject    string
	Limit      int
	Offset     int
}
