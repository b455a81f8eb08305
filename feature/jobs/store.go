package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/scenespin/reference-sync/core/metrics"

	"go.uber.org/zap"
)

// CompletionHook is a one-shot side effect fired on a job's transition to
// completed (cache invalidation, partial-failure surfacing).
type CompletionHook func(job *Job)

// Store is the merge engine for job records.
//
// Incoming records are merged by job ID, never by replacing the collection,
// so client-side state survives polling and an unchanged job keeps its
// stored pointer (no re-render churn downstream). A changed job is
// republished as a fresh record; a *Job handed out through Jobs or Get is
// never written again, so readers can hold one across a concurrent merge.
// Terminal jobs never change status again regardless of what later polls
// claim, and progress never decreases; that makes two racing polls
// order-independent.
type Store struct {
	logger *zap.Logger

	mu        sync.RWMutex
	jobs      map[string]*Job
	completed map[string]struct{}
	hooks     []CompletionHook
}

// NewStore creates an empty job store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger:    logger,
		jobs:      make(map[string]*Job),
		completed: make(map[string]struct{}),
	}
}

// OnCompletion registers a hook fired exactly once per job when it reaches
// completed. Hooks registered after a job completed do not fire for it.
func (s *Store) OnCompletion(hook CompletionHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Merge folds a poll response into the collection. Jobs absent from the
// response are kept; removal happens only through Delete.
func (s *Store) Merge(incoming []Job) {
	var fire []*Job

	s.mu.Lock()
	for _, in := range incoming {
		if in.ID == "" {
			continue
		}

		existing, ok := s.jobs[in.ID]
		if !ok {
			job := in
			s.jobs[in.ID] = &job
			metrics.JobTransitions.WithLabelValues(string(job.Status)).Inc()
			if job.Status == StatusCompleted {
				fire = append(fire, s.markCompleted(&job)...)
			}
			continue
		}

		merged := mergeRecord(existing, in)
		if merged == nil {
			// Unchanged; stored pointer stays untouched.
			continue
		}

		if merged.Status != existing.Status {
			metrics.JobTransitions.WithLabelValues(string(merged.Status)).Inc()
		}
		// Republish rather than write through the old pointer; snapshots
		// already handed out keep reading what they were handed.
		s.jobs[in.ID] = merged
		if merged.Status == StatusCompleted {
			fire = append(fire, s.markCompleted(merged)...)
		}
	}
	hooks := s.hooks
	s.mu.Unlock()

	// Hooks run outside the lock; they invalidate other components' caches.
	for _, job := range fire {
		if job.Outcome == OutcomeUserChoiceRequired {
			s.logger.Info("Job completed with policy-restricted items, user choice required",
				zap.String("job_id", job.ID),
				zap.String("type", job.Type),
			)
		}
		for _, hook := range hooks {
			hook(job)
		}
	}
}

// markCompleted guards the one-shot completion side effects. Returns the
// job when the hooks still need to fire for it.
func (s *Store) markCompleted(job *Job) []*Job {
	if _, seen := s.completed[job.ID]; seen {
		return nil
	}
	s.completed[job.ID] = struct{}{}
	if job.HasPolicyRestrictedFailures() {
		job.Outcome = OutcomeUserChoiceRequired
	}
	return []*Job{job}
}

// mergeRecord applies an incoming record on top of the existing one.
// Returns nil when nothing would change.
func mergeRecord(existing *Job, in Job) *Job {
	merged := *existing

	if existing.Status.IsTerminal() {
		// Terminal is terminal; later polls cannot reopen the job. A later
		// poll may still deliver the payload the first terminal record
		// lacked, status staying fixed.
		if merged.Results == nil && in.Results != nil {
			merged.Results = in.Results
			if merged.Outcome == "" && merged.HasPolicyRestrictedFailures() {
				merged.Outcome = OutcomeUserChoiceRequired
			}
		}
		if merged.Error == "" && in.Error != "" {
			merged.Error = in.Error
		}
	} else {
		if in.Status.rank() > existing.Status.rank() {
			merged.Status = in.Status
		}
		if in.Progress > merged.Progress {
			merged.Progress = in.Progress
		}
		if in.Error != "" {
			merged.Error = in.Error
		}
		if in.Results != nil {
			merged.Results = in.Results
		}
		if in.UpdatedAt.After(merged.UpdatedAt) {
			merged.UpdatedAt = in.UpdatedAt
		}
		if in.Type != "" {
			merged.Type = in.Type
		}
	}

	if jobEqual(existing, &merged) {
		return nil
	}
	return &merged
}

// Jobs returns the collection sorted newest-first. The returned records are
// never written again by the store; callers treat them as read-only.
func (s *Store) Jobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		list = append(list, job)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Get returns one job by ID.
func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Delete removes a job. This is the only way a record leaves the
// collection; jobs missing from a poll response are kept.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	delete(s.completed, id)
	s.mu.Unlock()
}

// AnyActive reports whether any job is still non-terminal.
func (s *Store) AnyActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if !job.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// FailOverdue marks non-terminal jobs older than the ceiling as failed with
// a timeout error, so a stuck executor is surfaced instead of polled
// forever.
func (s *Store) FailOverdue(ceiling time.Duration, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if job.Status.IsTerminal() {
			continue
		}
		// A record without a creation time cannot be overdue.
		if job.CreatedAt.IsZero() || now.Sub(job.CreatedAt) <= ceiling {
			continue
		}
		failed := *job
		failed.Status = StatusFailed
		failed.Error = fmt.Sprintf("timed out after %s", ceiling)
		failed.UpdatedAt = now
		s.jobs[id] = &failed
		metrics.JobTransitions.WithLabelValues(string(StatusFailed)).Inc()
		s.logger.Warn("Job timed out",
			zap.String("job_id", job.ID),
			zap.String("type", job.Type),
			zap.Duration("ceiling", ceiling),
		)
	}
}

// jobEqual compares every merged field, including the result payload.
func jobEqual(a, b *Job) bool {
	if a.ID != b.ID || a.Type != b.Type || a.Status != b.Status ||
		a.Progress != b.Progress || a.Error != b.Error || a.Outcome != b.Outcome ||
		!a.CreatedAt.Equal(b.CreatedAt) || !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}
	if len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}
