package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// Job is the tracked application record owned by the job store.
// The capture pipeline only reads Link, Company and Position from it.
type Job struct {
	ID        string            `json:"id"`
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	Link      string            `json:"link,omitempty"`
	Status    ApplicationStatus `json:"status"`
	Parsed    bool              `json:"parsed"`
	ParsedAt  *time.Time        `json:"parsed_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Metadata returns the caller-supplied fallback values for a capture.
func (j *Job) Metadata() JobMetadata {
	return JobMetadata{
		Company:  j.Company,
		Position: j.Position,
	}
}
