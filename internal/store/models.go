package store

import "time"

// Run statuses
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// Run is one recorded pass over all outputs
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	Outputs    []OutputRecord
}

// OutputRecord is one feed artifact written during a run
type OutputRecord struct {
	Short     string    `json:"short"`
	Languages []string  `json:"languages"`
	Entries   int       `json:"entries"`
	Path      string    `json:"path"`
	WrittenAt time.Time `json:"written_at"`
}
