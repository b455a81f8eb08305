package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Snapshot is what the presentation surface renders for the jobs query.
type Snapshot struct {
	Jobs      []*Job `json:"jobs"`
	IsPolling bool   `json:"isPolling"`
}

// Service ties the store, the poller, and the external client together.
type Service struct {
	client Client
	store  *Store
	poller *Poller
	logger *zap.Logger
	scope  string
}

// NewService creates a jobs service for one scope.
func NewService(client Client, cfg Config, logger *zap.Logger, scope string) *Service {
	store := NewStore(logger)
	return &Service{
		client: client,
		store:  store,
		poller: NewPoller(client, store, cfg, logger, scope),
		logger: logger,
		scope:  scope,
	}
}

// Scope returns the workspace scope this service is bound to.
func (s *Service) Scope() string {
	return s.scope
}

// Store exposes the merge engine so completion hooks can be registered.
func (s *Service) Store() *Store {
	return s.store
}

// Start begins polling.
func (s *Service) Start(ctx context.Context) {
	s.poller.Start(ctx)
}

// Stop halts polling.
func (s *Service) Stop() {
	s.poller.Stop()
}

// Snapshot returns the current job collection and polling state.
func (s *Service) Snapshot() Snapshot {
	return Snapshot{
		Jobs:      s.store.Jobs(),
		IsPolling: s.poller.IsPolling(),
	}
}

// Wake forces an immediate poll, called right after the user creates a job.
func (s *Service) Wake() {
	s.poller.Wake()
}

// Delete removes a job on the service side and locally. Local removal is
// skipped when the remote delete fails, so the record stays visible.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Get(id); !ok {
		return fmt.Errorf("unknown job %s", id)
	}

	if err := s.client.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}

	s.store.Delete(id)
	s.logger.Info("Job deleted", zap.String("job_id", id))
	return nil
}
