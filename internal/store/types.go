package store

import (
	"time"

	"github.com/google/uuid"
)

// Run modes
const (
	ModeOutline = "outline"
	ModePersona = "persona"
)

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusPartial   = "partial" // completed with per-document errors
	StatusFailed    = "failed"
)

// Artifact steps
const (
	StepRequest = "request"
	StepOutput  = "output"
	StepOutline = "outline"
)

// Run represents an analysis run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Mode        string     `json:"mode"`
	Persona     string     `json:"persona"`
	JobToBeDone string     `json:"job_to_be_done"`
	Encoder     string     `json:"encoder"`
	Status      string     `json:"status"`
	ErrorCount  int        `json:"error_count"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunInput holds the fields recorded when a run starts.
type RunInput struct {
	Mode        string
	Persona     string
	JobToBeDone string
	Encoder     string
}

// DocumentRecord is the per-document outcome stored with a run.
type DocumentRecord struct {
	Name         string        `json:"name"`
	ContentHash  string        `json:"content_hash"`
	SectionCount int           `json:"section_count"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Mode   string
	Status string
	Limit  int
}
