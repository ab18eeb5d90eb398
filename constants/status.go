package constants

// RunStatus is the canonical status for rows in runs.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusQueued    RunStatus = "QUEUED"    // waiting for a worker
	RunStatusDecoded   RunStatus = "DECODED"   // stage 1 completed (tokens extracted)
	RunStatusExtracted RunStatus = "EXTRACTED" // stage 2 completed (records assembled)
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure
)
