package models

import "time"

// SourceType tags which strategy produced a ParseResult.
type SourceType string

const (
	SourceGeneric          SourceType = "generic"
	SourceLinkedIn         SourceType = "linkedin"
	SourceLinkedInFallback SourceType = "linkedin-fallback"
	SourceIndeed           SourceType = "indeed"
	SourceGlassdoor        SourceType = "glassdoor"
)

// JobMetadata carries the fields the job store already knows about a posting.
// They are used when extraction comes back empty.
type JobMetadata struct {
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
}

// Files references the artifacts written for a capture. Empty means absent.
type Files struct {
	HTML       string `json:"html,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
	Text       string `json:"text,omitempty"`
}

// ParseResult is the structured record of one capture, persisted as data.json.
type ParseResult struct {
	JobID       string     `json:"jobId"`
	URL         string     `json:"url"`
	Title       string     `json:"title,omitempty"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	Salary      string     `json:"salary,omitempty"`
	Description string     `json:"description,omitempty"`
	Seniority   string     `json:"seniority,omitempty"`
	SourceType  SourceType `json:"sourceType"`
	ParsedAt    time.Time  `json:"parsedAt"`
	Note        string     `json:"note,omitempty"`
	Files       Files      `json:"files"`
}

// DebugInfo is the breadcrumb written before any fetch is attempted.
type DebugInfo struct {
	CaptureID string      `json:"captureId"`
	JobID     string      `json:"jobId"`
	URL       string      `json:"url"`
	ParsedAt  time.Time   `json:"parsedAt"`
	JobData   JobMetadata `json:"jobData"`
}
