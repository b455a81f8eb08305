// Package jobs observes asynchronous generation jobs and merges their
// progress into client state without discarding it.
//
// # Merge Engine
//
// Poll responses are merged into the collection by job ID, never by
// replacement: an unchanged job keeps its stored pointer, terminal jobs
// (completed/failed) never change status again, and progress never
// decreases. Two racing polls therefore converge to the same state in
// either order. Jobs leave the collection only through explicit deletion.
//
// # Completion Side Effects
//
// The transition to completed fires registered hooks exactly once per job,
// guarded by a seen set. The hooks invalidate the reference and scene
// caches so newly generated objects appear on the next query. Completed
// jobs whose result payload includes policy-restricted item failures carry
// the user-choice-required outcome; the layer never auto-resolves those.
//
// # Poller
//
// The poll loop runs on a short interval while any job is live, a wide one
// once every observed job is terminal, and wakes immediately when a new job
// is created. Non-terminal jobs older than the timeout ceiling are surfaced
// as failed rather than polled forever.
//
// # HTTP Endpoints
//
//   - GET    /jobs/      : merged job list plus polling state
//   - POST   /jobs/wake  : force an immediate poll
//   - DELETE /jobs/:id   : delete a job
package jobs
