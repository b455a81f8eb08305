package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// jobBase keeps fixtures well inside any timeout ceiling applied against
// the wall clock, and identical across calls so an unchanged re-merge
// really is unchanged.
var jobBase = time.Now().UTC().Truncate(time.Second)

func testJob(id string, status Status, progress int) Job {
	return Job{
		ID:        id,
		Type:      "pose-generation",
		Status:    status,
		Progress:  progress,
		CreatedAt: jobBase,
		UpdatedAt: jobBase,
	}
}

func TestMerge_UnchangedJobKeepsStoredPointer(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusRunning, 40)})

	before := store.Jobs()
	require.Len(t, before, 1)

	store.Merge([]Job{testJob("job-1", StatusRunning, 40)})

	after := store.Jobs()
	require.Len(t, after, 1)
	assert.Same(t, before[0], after[0])
}

func TestMerge_StatusNeverMovesBackwards(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusRunning, 50)})

	// A stale poll response claiming queued must not reopen the job.
	store.Merge([]Job{testJob("job-1", StatusQueued, 50)})

	job, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, StatusRunning, job.Status)
}

func TestMerge_TerminalStatusIsNeverLeft(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusFailed, 80)})

	store.Merge([]Job{testJob("job-1", StatusRunning, 90)})

	job, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, 80, job.Progress)
}

func TestMerge_ProgressNeverDecreases(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusRunning, 60)})
	store.Merge([]Job{testJob("job-1", StatusRunning, 30)})

	job, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, 60, job.Progress)
}

func TestMerge_JobsAbsentFromResponseAreKept(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{
		testJob("job-1", StatusRunning, 10),
		testJob("job-2", StatusQueued, 0),
	})

	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})

	assert.Len(t, store.Jobs(), 2)
	_, ok := store.Get("job-2")
	assert.True(t, ok)
}

func TestMerge_CompletionHookFiresExactlyOnce(t *testing.T) {
	store := NewStore(zap.NewNop())

	var fired []string
	store.OnCompletion(func(job *Job) {
		fired = append(fired, job.ID)
	})

	store.Merge([]Job{testJob("job-1", StatusRunning, 50)})
	assert.Empty(t, fired)

	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})
	require.Equal(t, []string{"job-1"}, fired)

	// Repeated polls of the already-completed job stay silent.
	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})
	assert.Equal(t, []string{"job-1"}, fired)
}

func TestMerge_HookFiresForJobFirstSeenCompleted(t *testing.T) {
	store := NewStore(zap.NewNop())

	var fired int
	store.OnCompletion(func(*Job) { fired++ })

	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})
	assert.Equal(t, 1, fired)
}

func TestMerge_PolicyRestrictedFailuresRequireUserChoice(t *testing.T) {
	store := NewStore(zap.NewNop())

	job := testJob("job-1", StatusCompleted, 100)
	job.Results = []ItemResult{
		{EntityID: "char-1", StorageKey: "poses/a.png"},
		{EntityID: "char-2", Error: "content policy violation", PolicyRestricted: true},
	}
	store.Merge([]Job{job})

	got, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, OutcomeUserChoiceRequired, got.Outcome)
}

func TestMerge_TransientItemFailuresAreNotUserChoice(t *testing.T) {
	store := NewStore(zap.NewNop())

	job := testJob("job-1", StatusCompleted, 100)
	job.Results = []ItemResult{
		{EntityID: "char-1", Error: "upstream timeout"},
	}
	store.Merge([]Job{job})

	got, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Empty(t, got.Outcome)
}

func TestJobs_SortedNewestFirst(t *testing.T) {
	store := NewStore(zap.NewNop())

	old := testJob("job-old", StatusCompleted, 100)
	old.CreatedAt = time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	recent := testJob("job-new", StatusRunning, 10)
	recent.CreatedAt = time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	store.Merge([]Job{old, recent})

	list := store.Jobs()
	require.Len(t, list, 2)
	assert.Equal(t, "job-new", list[0].ID)
	assert.Equal(t, "job-old", list[1].ID)
}

func TestFailOverdue_MarksStuckJobsFailed(t *testing.T) {
	store := NewStore(zap.NewNop())

	stuck := testJob("job-stuck", StatusRunning, 30)
	stuck.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	fresh := testJob("job-fresh", StatusRunning, 5)
	fresh.CreatedAt = time.Date(2026, 8, 1, 12, 55, 0, 0, time.UTC)
	done := testJob("job-done", StatusCompleted, 100)
	done.CreatedAt = stuck.CreatedAt
	store.Merge([]Job{stuck, fresh, done})

	now := time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)
	store.FailOverdue(20*time.Minute, now)

	got, _ := store.Get("job-stuck")
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "timed out after 20m0s", got.Error)

	got, _ = store.Get("job-fresh")
	assert.Equal(t, StatusRunning, got.Status)

	got, _ = store.Get("job-done")
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestDelete_RemovesJob(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})

	store.Delete("job-1")

	_, ok := store.Get("job-1")
	assert.False(t, ok)
	assert.Empty(t, store.Jobs())
}

// A changed job is republished as a fresh record; a snapshot handed out
// earlier keeps reading what it was handed.
func TestMerge_PublishedRecordsAreNotMutated(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusRunning, 10)})

	published, ok := store.Get("job-1")
	require.True(t, ok)

	store.Merge([]Job{testJob("job-1", StatusRunning, 50)})

	assert.Equal(t, 10, published.Progress)

	current, ok := store.Get("job-1")
	require.True(t, ok)
	assert.NotSame(t, published, current)
	assert.Equal(t, 50, current.Progress)
}

func TestStore_ConcurrentMergeAndSnapshot(t *testing.T) {
	store := NewStore(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i <= 100; i++ {
			store.Merge([]Job{testJob("job-1", StatusRunning, i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			for _, job := range store.Jobs() {
				_ = job.Progress
				_ = job.Status
			}
			store.FailOverdue(20*time.Minute, time.Now())
		}
	}()
	wg.Wait()

	job, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, 100, job.Progress)
}

func TestMerge_LatePayloadLandsOnTerminalJob(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})

	late := testJob("job-1", StatusCompleted, 100)
	late.Results = []ItemResult{{EntityID: "char-1", StorageKey: "poses/a.png"}}
	store.Merge([]Job{late})

	got, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "poses/a.png", got.Results[0].StorageKey)
}

func TestMerge_LatePolicyPayloadSetsOutcome(t *testing.T) {
	store := NewStore(zap.NewNop())
	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})

	late := testJob("job-1", StatusCompleted, 100)
	late.Results = []ItemResult{
		{EntityID: "char-1", Error: "content policy violation", PolicyRestricted: true},
	}
	store.Merge([]Job{late})

	got, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, OutcomeUserChoiceRequired, got.Outcome)
}

func TestFailOverdue_SkipsRecordsWithoutCreatedAt(t *testing.T) {
	store := NewStore(zap.NewNop())

	job := testJob("job-1", StatusRunning, 10)
	job.CreatedAt = time.Time{}
	store.Merge([]Job{job})

	store.FailOverdue(20*time.Minute, time.Now())

	got, ok := store.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, StatusRunning, got.Status)
}

func TestAnyActive(t *testing.T) {
	store := NewStore(zap.NewNop())
	assert.False(t, store.AnyActive())

	store.Merge([]Job{testJob("job-1", StatusRunning, 10)})
	assert.True(t, store.AnyActive())

	store.Merge([]Job{testJob("job-1", StatusCompleted, 100)})
	assert.False(t, store.AnyActive())
}
