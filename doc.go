// Package rtstate implements a state-driven task activation core on top of goroutines.
//
// A Controller owns a small ring of states. Each state names the worker Tasks that may run
// while it is current; on every committed transition the Controller suspends every managed
// Task, then resumes only the ones the new state lists. Tasks coordinate through two
// primitives: the Slot, a one-value cell where the latest write wins, and the Signal, a
// one-token semaphore used either as a mutex or as an event latch. A Heartbeat presents the
// screen once per period and releases a draw-ready latch that worker Tasks wait on.
//
// Suspension is cooperative. A Task is only parked at one of its own suspension points
// (Acquire, Do, Wait, Sleep, TakeNotify, Checkpoint), and never while it holds a lock it
// took with Do.
package rtstate
