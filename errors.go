package rtstate

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned by bounded waits that expire. It means "not available yet",
	// never a hard failure.
	ErrTimeout = errors.New("rtstate: timeout")

	// ErrDuplicateTask is returned when a TaskID is registered twice.
	ErrDuplicateTask = errors.New("rtstate: duplicate task")

	// ErrUnknownTask is returned when a Table names a TaskID the Registry does not hold.
	ErrUnknownTask = errors.New("rtstate: unknown task")

	// ErrEmptyTable is returned by NewTable when no states are given.
	ErrEmptyTable = errors.New("rtstate: empty state table")

	// ErrClosed is returned by components used after they have shut down.
	ErrClosed = errors.New("rtstate: closed")
)

// waitErr maps an expired context to ErrTimeout and passes cancellation through.
func waitErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ctx.Err()
}
