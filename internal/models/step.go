package models

import "strings"

// Step is one geocoded clue in the hunt sequence. Rank is its 1-based
// position; the rank set always forms a dense run 1..N across the table.
type Step struct {
	ID           int64   `json:"id"`
	Rank         int32   `json:"rank"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationHint string  `json:"location_hint"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	Media        string  `json:"media"`
	IsEnd        bool    `json:"is_end"`
}

// Trim strips surrounding whitespace from the free-text fields.
func (s *Step) Trim() {
	s.LocationHint = strings.TrimSpace(s.LocationHint)
	s.Question = strings.TrimSpace(s.Question)
	s.Answer = strings.TrimSpace(s.Answer)
	s.Media = strings.TrimSpace(s.Media)
}
