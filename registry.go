package rtstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SpawnOption is a functional option to Registry.Spawn.
type SpawnOption func(*spawnOptions)

type spawnOptions struct {
	suspended bool
}

// StartSuspended option creates the Task suspended; it parks before running its body.
func StartSuspended() SpawnOption {
	return func(o *spawnOptions) {
		o.suspended = true
	}
}

// Registry holds Tasks by TaskID. Operations on an ID the Registry does not hold are no-ops,
// so callers can refer to Tasks that have not been created yet.
type Registry struct {
	mu    sync.RWMutex
	tasks map[TaskID]*Task
	order []TaskID
	log   zerolog.Logger
}

// NewRegistry makes an empty Registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		tasks: make(map[TaskID]*Task),
		log:   log,
	}
}

// Spawn registers a Task running fn. The Task starts when Run is called.
func (r *Registry) Spawn(id TaskID, fn TaskFunc, opts ...SpawnOption) (*Task, error) {
	var o spawnOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; ok {
		return nil, fmt.Errorf("spawn %s: %w", id, ErrDuplicateTask)
	}
	t := newTask(id, fn, o.suspended)
	r.tasks[id] = t
	r.order = append(r.order, id)
	r.log.Debug().Str("task", string(id)).Bool("suspended", o.suspended).Msg("task created")
	return t, nil
}

// Remove forgets a Task that has not been started.
func (r *Registry) Remove(id TaskID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return
	}
	delete(r.tasks, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.log.Debug().Str("task", string(id)).Msg("task deleted")
}

// Lookup returns the Task registered under id.
func (r *Registry) Lookup(id TaskID) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	return t, ok
}

// Suspend suspends the Task registered under id and reports whether there was one.
func (r *Registry) Suspend(id TaskID) bool {
	t, ok := r.Lookup(id)
	if ok {
		t.Suspend()
	}
	return ok
}

// Resume resumes the Task registered under id and reports whether there was one.
func (r *Registry) Resume(id TaskID) bool {
	t, ok := r.Lookup(id)
	if ok {
		t.Resume()
	}
	return ok
}

// State returns the scheduling state of the Task registered under id.
func (r *Registry) State(id TaskID) (TaskState, bool) {
	t, ok := r.Lookup(id)
	if !ok {
		return 0, false
	}
	return t.State(), true
}

// IDs returns the registered TaskIDs in creation order.
func (r *Registry) IDs() []TaskID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]TaskID(nil), r.order...)
}

// Run starts every registered Task and waits for all of them to return. The first Task to
// fail cancels the others; its error is returned. Cancelling ctx stops all Tasks and makes
// Run return nil.
func (r *Registry) Run(ctx context.Context) error {
	r.mu.RLock()
	tasks := make([]*Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id])
	}
	r.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			err := t.run(ctx)
			if err != nil {
				r.log.Error().Err(err).Str("task", string(t.id)).Msg("task failed")
			}
			return err
		})
	}
	return g.Wait()
}
