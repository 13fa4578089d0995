// Package types contains common types used across the application
package types

// Entry represents a final score row
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Report is the rendered view of a roster after ingest.
type Report struct {
	Participants []string `json:"participants"`
	Unique       []string `json:"unique"`
	Scores       []Entry  `json:"scores"`
}

// Normalize replaces nil slices with empty ones so JSON renders [] instead of null.
func (r Report) Normalize() Report {
	if r.Participants == nil {
		r.Participants = []string{}
	}
	if r.Unique == nil {
		r.Unique = []string{}
	}
	if r.Scores == nil {
		r.Scores = []Entry{}
	}
	return r
}
