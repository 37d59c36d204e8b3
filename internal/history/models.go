package history

import "time"

const SchemaVersion = 1

// Snapshot is one persisted scan result summary.
type Snapshot struct {
	SchemaVersion        int       `json:"schema_version"`
	ScanID               string    `json:"scan_id"`
	Timestamp            time.Time `json:"timestamp"`
	CommitHash           string    `json:"commit_hash,omitempty"`
	CommitTimestamp      time.Time `json:"commit_timestamp,omitempty"`
	FileCount            int       `json:"file_count"`
	FindingCount         int       `json:"finding_count"`
	StructuralErrorCount int       `json:"structural_error_count"`
	DurationMS           int64     `json:"duration_ms"`
}

type TrendPoint struct {
	Timestamp            time.Time `json:"timestamp"`
	CommitHash           string    `json:"commit_hash,omitempty"`
	FileCount            int       `json:"file_count"`
	FindingCount         int       `json:"finding_count"`
	StructuralErrorCount int       `json:"structural_error_count"`
	DeltaFiles           int       `json:"delta_files"`
	DeltaFindings        int       `json:"delta_findings"`
	AvgFindings          float64   `json:"avg_findings"`
	WindowHours          float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
