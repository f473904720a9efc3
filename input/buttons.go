package input

import "github.com/faiface/rtstate"

// Buttons is the shared key buffer. It is guarded by its own mutex-mode Signal, and every
// method only ever tries the lock: when it is busy the call does nothing and reports false,
// which means "try again on the next poll", not an error.
type Buttons struct {
	lock    *rtstate.Signal
	down    map[Key]bool
	pressed map[Key]bool
	presses map[Key]uint64
}

// NewButtons makes an empty buffer.
func NewButtons() *Buttons {
	return &Buttons{
		lock:    rtstate.NewMutex(),
		down:    make(map[Key]bool),
		pressed: make(map[Key]bool),
		presses: make(map[Key]uint64),
	}
}

// Update applies events in order. A key-down latches a press until Consume takes it.
func (b *Buttons) Update(events []Event) bool {
	if !b.lock.TryAcquire() {
		return false
	}
	defer b.lock.Release()
	for _, e := range events {
		if e.Down && !b.down[e.Key] {
			b.pressed[e.Key] = true
			b.presses[e.Key]++
		}
		b.down[e.Key] = e.Down
	}
	return true
}

// Consume reports whether k has been pressed since the last Consume of k, and clears the
// latch.
func (b *Buttons) Consume(k Key) bool {
	if !b.lock.TryAcquire() {
		return false
	}
	defer b.lock.Release()
	if !b.pressed[k] {
		return false
	}
	b.pressed[k] = false
	return true
}

// Presses returns how many times each key has gone down. The second result is false if the
// buffer was busy.
func (b *Buttons) Presses(keys ...Key) ([]uint64, bool) {
	if !b.lock.TryAcquire() {
		return nil, false
	}
	defer b.lock.Release()
	n := make([]uint64, len(keys))
	for i, k := range keys {
		n[i] = b.presses[k]
	}
	return n, true
}

// Down reports whether k is held. The second result is false if the buffer was busy.
func (b *Buttons) Down(k Key) (down, ok bool) {
	if !b.lock.TryAcquire() {
		return false, false
	}
	defer b.lock.Release()
	return b.down[k], true
}
