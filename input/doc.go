// Package input turns key events from a backend into the logical actions of the task core.
//
// A Source delivers Events. A Poller task drains them into a Buttons buffer and consumes
// edge-triggered presses of bound keys, dispatching one Action per press.
package input
