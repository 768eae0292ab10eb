package constants

// JobStatus is the canonical status for rows in ingest_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // discovered, waiting for processing
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED" // parsed, validated and persisted
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure, error_message set
)
