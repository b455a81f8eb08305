package jobs

import "time"

// Status is a job's lifecycle state. Transitions are monotonic:
// queued -> running -> completed|failed. Terminal states are never left.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// rank orders statuses along the lifecycle so stale poll responses can
// never move a job backwards.
func (s Status) rank() int {
	switch s {
	case StatusQueued:
		return 0
	case StatusRunning:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	default:
		return -1
	}
}

// Outcome values surfaced to presentation beyond the raw status.
const (
	// OutcomeUserChoiceRequired marks a completed job whose results include
	// policy-restricted item failures. The user decides how to retry; the
	// layer never auto-resolves these.
	OutcomeUserChoiceRequired = "user-choice-required"
)

// ItemResult is one generated item inside a job's result payload. A job
// completes even when some of its items fail; per-item failures are
// rendered individually and are not job failures.
type ItemResult struct {
	// EntityID is the entity the generated object belongs to.
	EntityID string `json:"entity_id,omitempty"`
	// StorageKey is the produced object's key, empty on failure.
	StorageKey string `json:"storage_key,omitempty"`
	// Error is the per-item failure message, empty on success.
	Error string `json:"error,omitempty"`
	// PolicyRestricted marks a failure caused by a content policy rather
	// than a transient fault.
	PolicyRestricted bool `json:"policy_restricted,omitempty"`
}

// Failed reports whether this item failed.
func (r ItemResult) Failed() bool {
	return r.Error != ""
}

// Job is one asynchronous generation task, owned by an external executor.
// This layer only observes: records are merged by ID, never replaced
// wholesale, and removed only by explicit user deletion.
type Job struct {
	// ID is the job's identity across polls.
	ID string `json:"id"`
	// Type names the generation pipeline (pose-generation, ...).
	Type string `json:"type"`
	// Status is the lifecycle state.
	Status Status `json:"status"`
	// Progress is 0..100, monotonically non-decreasing while running.
	Progress int `json:"progress"`
	// Results is the per-item payload, present once completed.
	Results []ItemResult `json:"results,omitempty"`
	// Error is the stored message for failed jobs, displayed verbatim.
	Error string `json:"error,omitempty"`
	// Outcome carries the user-choice-required marker for completed jobs
	// with policy-restricted item failures.
	Outcome string `json:"outcome,omitempty"`
	// CreatedAt is when the job was submitted.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the executor's last status change.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPolicyRestrictedFailures reports whether any item failed on policy
// grounds.
func (j Job) HasPolicyRestrictedFailures() bool {
	for _, r := range j.Results {
		if r.Failed() && r.PolicyRestricted {
			return true
		}
	}
	return false
}

// Config holds configuration for the job poller and the job status service.
type Config struct {
	// ServiceURL is the base URL of the external job status service.
	ServiceURL string `mapstructure:"service_url" default:"http://localhost:9100"`
	// ServiceApiKey authenticates against the job status service.
	ServiceApiKey string `mapstructure:"service_api_key" default:""`
	// ActiveIntervalSeconds is the poll spacing while any job is live.
	ActiveIntervalSeconds int `mapstructure:"active_interval_seconds" default:"5"`
	// IdleIntervalSeconds is the poll spacing once every job is terminal.
	IdleIntervalSeconds int `mapstructure:"idle_interval_seconds" default:"30"`
	// TimeoutMinutes is the ceiling after which a still-running job is
	// surfaced as failed instead of polled forever.
	TimeoutMinutes int `mapstructure:"timeout_minutes" default:"20"`
}
