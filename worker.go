package rtstate

import "context"

// Frame runs one iteration of the worker contract: wait for a draw-ready permit, then run f
// holding lock. The permit is always taken before the lock, never the other way round; the
// Heartbeat takes the lock before it releases a permit, so the reverse order could deadlock.
func Frame(ctx context.Context, t *Task, ready, lock *Signal, f func()) error {
	if err := t.Acquire(ctx, ready); err != nil {
		return err
	}
	return t.Do(ctx, lock, f)
}

// Loop wraps a per-iteration body into a TaskFunc that runs it until it fails or ctx is
// cancelled.
func Loop(body func(ctx context.Context, t *Task) error) TaskFunc {
	return func(ctx context.Context, t *Task) error {
		for {
			if err := body(ctx, t); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
