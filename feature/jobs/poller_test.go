package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeJobsClient struct {
	mu    sync.Mutex
	jobs  []Job
	err   error
	calls int
}

func (c *fakeJobsClient) ListJobs(ctx context.Context, scope string, filters ListFilters) ([]Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return append([]Job(nil), c.jobs...), nil
}

func (c *fakeJobsClient) DeleteJob(ctx context.Context, id string) error {
	return nil
}

func (c *fakeJobsClient) set(jobs []Job, err error) {
	c.mu.Lock()
	c.jobs = jobs
	c.err = err
	c.mu.Unlock()
}

func pollerConfig() Config {
	return Config{
		ActiveIntervalSeconds: 1,
		IdleIntervalSeconds:   60,
		TimeoutMinutes:        20,
	}
}

func TestPoller_FirstPollIsImmediate(t *testing.T) {
	client := &fakeJobsClient{jobs: []Job{testJob("job-1", StatusCompleted, 100)}}
	store := NewStore(zap.NewNop())
	poller := NewPoller(client, store, pollerConfig(), zap.NewNop(), "ws-1")

	poller.Start(context.Background())
	defer poller.Stop()

	assert.Eventually(t, func() bool {
		_, ok := store.Get("job-1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPoller_WakeResumesIdleLoop(t *testing.T) {
	client := &fakeJobsClient{}
	store := NewStore(zap.NewNop())
	poller := NewPoller(client, store, pollerConfig(), zap.NewNop(), "ws-1")

	poller.Start(context.Background())
	defer poller.Stop()

	// Empty collection, so the loop settles on the wide idle interval.
	assert.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.calls >= 1
	}, 2*time.Second, 10*time.Millisecond)

	client.set([]Job{testJob("job-new", StatusRunning, 0)}, nil)
	poller.Wake()

	assert.Eventually(t, func() bool {
		_, ok := store.Get("job-new")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPoller_ListFailureKeepsPriorCollection(t *testing.T) {
	client := &fakeJobsClient{jobs: []Job{testJob("job-1", StatusCompleted, 100)}}
	store := NewStore(zap.NewNop())
	poller := NewPoller(client, store, pollerConfig(), zap.NewNop(), "ws-1")

	poller.Start(context.Background())
	defer poller.Stop()

	assert.Eventually(t, func() bool {
		_, ok := store.Get("job-1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	before := func() int {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.calls
	}()

	client.set(nil, errors.New("service unavailable"))
	poller.Wake()

	// The failed poll retries and gives up; the stored job survives it.
	assert.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.calls >= before+3
	}, 5*time.Second, 20*time.Millisecond)

	_, ok := store.Get("job-1")
	assert.True(t, ok)
}

func TestPoller_IsPollingTracksLiveJobs(t *testing.T) {
	client := &fakeJobsClient{jobs: []Job{testJob("job-1", StatusRunning, 10)}}
	store := NewStore(zap.NewNop())
	poller := NewPoller(client, store, pollerConfig(), zap.NewNop(), "ws-1")

	poller.Start(context.Background())
	defer poller.Stop()

	assert.Eventually(t, poller.IsPolling, 2*time.Second, 10*time.Millisecond)

	client.set([]Job{testJob("job-1", StatusCompleted, 100)}, nil)
	poller.Wake()

	assert.Eventually(t, func() bool {
		return !poller.IsPolling()
	}, 3*time.Second, 10*time.Millisecond)
}

func TestPoller_StopEndsLoop(t *testing.T) {
	client := &fakeJobsClient{}
	store := NewStore(zap.NewNop())
	poller := NewPoller(client, store, pollerConfig(), zap.NewNop(), "ws-1")

	poller.Start(context.Background())
	poller.Stop()

	calls := func() int {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.calls
	}()
	time.Sleep(50 * time.Millisecond)

	client.mu.Lock()
	after := client.calls
	client.mu.Unlock()
	assert.Equal(t, calls, after)
}
