// Package rag holds reference curricula and retrieves the passages most
// relevant to a question, so the analysis prompt can cite standard codes.
package rag

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
)

const (
	// DefaultTopK is how many curriculum sections a search returns.
	DefaultTopK = 2

	// minSectionLength drops heading-only fragments from the section split.
	minSectionLength = 20
)

// ErrNotFound is returned when a named curriculum does not exist.
var ErrNotFound = errors.New("curriculum not found")

var (
	// sectionStartRe marks standard-code headings like "ว 1.1" or "M 2.3"
	// that begin a curriculum section.
	sectionStartRe = regexp.MustCompile(`\n[ก-ฮA-Z]\s*\d+\.\d+`)

	// wordRe must include combining marks (\p{M}); Thai vowel and tone
	// marks are category Mn, and excluding them shatters Thai words into
	// single-letter fragments that match almost any section.
	wordRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}]+`)
)

type curriculum struct {
	text     string
	sections []string
}

// Store is an in-memory collection of curricula with one active selection.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	curricula map[string]curriculum
	active    string
}

func NewStore() *Store {
	return &Store{curricula: make(map[string]curriculum)}
}

// Add registers a curriculum under name, pre-splitting it into sections.
// The first curriculum added becomes active automatically. Returns the
// section count.
func (s *Store) Add(name, content string) int {
	sections := splitSections(content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.curricula[name] = curriculum{text: content, sections: sections}
	if s.active == "" {
		s.active = name
	}
	return len(sections)
}

// Remove deletes a curriculum. Removing the active one promotes another
// registered curriculum, if any remain.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.curricula[name]; !ok {
		return ErrNotFound
	}
	delete(s.curricula, name)
	if s.active == name {
		s.active = ""
		for other := range s.curricula {
			s.active = other
			break
		}
	}
	return nil
}

// SetActive selects which curriculum Search uses.
func (s *Store) SetActive(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.curricula[name]; !ok {
		return ErrNotFound
	}
	s.active = name
	return nil
}

// Active returns the name of the selected curriculum, or "".
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Names lists registered curricula in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.curricula))
	for name := range s.curricula {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a curriculum is registered under name.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.curricula[name]
	return ok
}

// Search returns up to topK sections of the active curriculum, ranked by how
// many query words each section contains. No active curriculum or no match
// returns nil; analysis then proceeds without a reference passage. topK <= 0
// uses DefaultTopK.
func (s *Store) Search(query string, topK int) []string {
	return s.SearchIn("", query, topK)
}

// SearchIn is Search against a named curriculum. An empty name means the
// active one.
func (s *Store) SearchIn(name, query string, topK int) []string {
	s.mu.RLock()
	if name == "" {
		name = s.active
	}
	cur := s.curricula[name]
	s.mu.RUnlock()

	if len(cur.sections) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	words := wordRe.FindAllString(strings.ToLower(query), -1)
	if len(words) == 0 {
		return nil
	}

	type scored struct {
		section string
		score   int
		order   int
	}
	var ranked []scored
	for i, section := range cur.sections {
		lower := strings.ToLower(section)
		score := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{section: section, score: score, order: i})
		}
	}
	if len(ranked) == 0 {
		return nil
	}

	// Ties keep document order so cited codes stay predictable.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.section
	}
	return out
}

// splitSections cuts curriculum text at standard-code headings and discards
// fragments too short to carry a standard. Text without any heading stays a
// single section.
func splitSections(content string) []string {
	starts := sectionStartRe.FindAllStringIndex(content, -1)

	var chunks []string
	prev := 0
	for _, loc := range starts {
		chunks = append(chunks, content[prev:loc[0]])
		prev = loc[0]
	}
	chunks = append(chunks, content[prev:])

	var sections []string
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if len([]rune(c)) > minSectionLength {
			sections = append(sections, c)
		}
	}
	return sections
}
