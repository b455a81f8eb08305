package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scenespin/reference-sync/core/metrics"
	"github.com/scenespin/reference-sync/core/utils"

	"go.uber.org/zap"
)

// ListFilters narrows a job listing.
type ListFilters struct {
	// Status limits results to one lifecycle state.
	Status Status
}

// Client is the capability interface for the external job status service.
type Client interface {
	ListJobs(ctx context.Context, scope string, filters ListFilters) ([]Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// Poller re-fetches the job list for its scope on an interval and feeds the
// merge engine. The interval shortens while any job is live and widens once
// every observed job is terminal; Wake resumes a widened loop immediately
// when a new job is created outside the known set.
//
// Overlapping polls are harmless: the store's merge is by job ID and
// order-independent, so whichever response lands last cannot regress state.
type Poller struct {
	client Client
	store  *Store
	cfg    Config
	logger *zap.Logger
	scope  string

	wake    chan struct{}
	active  atomic.Bool
	stop    context.CancelFunc
	stopped sync.WaitGroup
}

// NewPoller creates a poller for one scope. Start must be called to begin
// polling.
func NewPoller(client Client, store *Store, cfg Config, logger *zap.Logger, scope string) *Poller {
	return &Poller{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		scope:  scope,
		wake:   make(chan struct{}, 1),
	}
}

// Start launches the poll loop. It runs until the context is cancelled or
// Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.stop = context.WithCancel(ctx)

	p.stopped.Add(1)
	go func() {
		defer p.stopped.Done()
		p.loop(ctx)
	}()
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	if p.stop != nil {
		p.stop()
	}
	p.stopped.Wait()
}

// Wake forces an immediate poll, used right after job creation so a new job
// shows up without waiting out the idle interval.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// IsPolling reports whether the loop is on the short interval, i.e. some
// job is still live.
func (p *Poller) IsPolling() bool {
	return p.active.Load()
}

func (p *Poller) loop(ctx context.Context) {
	p.logger.Info("Job poller started",
		zap.String("scope", p.scope),
		zap.Int("active_interval_s", p.cfg.ActiveIntervalSeconds),
		zap.Int("idle_interval_s", p.cfg.IdleIntervalSeconds),
	)

	for {
		p.pollOnce(ctx)
		if ctx.Err() != nil {
			return
		}

		interval := time.Duration(p.cfg.IdleIntervalSeconds) * time.Second
		if p.store.AnyActive() {
			interval = time.Duration(p.cfg.ActiveIntervalSeconds) * time.Second
			p.active.Store(true)
		} else {
			p.active.Store(false)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Job poller stopped", zap.String("scope", p.scope))
			return
		case <-p.wake:
		case <-time.After(interval):
		}
	}
}

// pollOnce fetches and merges the job list, then applies the timeout
// ceiling. A failed fetch after retries is non-fatal; the prior collection
// stays visible.
func (p *Poller) pollOnce(ctx context.Context) {
	metrics.PollTicks.Inc()

	var jobs []Job
	err := utils.WithBackoff(ctx, 3, 500*time.Millisecond, func() error {
		var listErr error
		jobs, listErr = p.client.ListJobs(ctx, p.scope, ListFilters{})
		return listErr
	})
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("Job list fetch failed", zap.String("scope", p.scope), zap.Error(err))
		}
		return
	}

	p.store.Merge(jobs)
	p.store.FailOverdue(time.Duration(p.cfg.TimeoutMinutes)*time.Minute, time.Now())
}
