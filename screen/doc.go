// Package screen is the render/present boundary of the task core: a gg-backed Canvas that
// worker tasks draw on while holding the screen lock, and Presenters that push finished
// frames somewhere visible.
package screen
