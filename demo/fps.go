package demo

import "time"

const fpsAverageCount = 50

// fpsMeter averages the frame rate over the last fpsAverageCount frames.
type fpsMeter struct {
	periods [fpsAverageCount]time.Duration
	total   time.Duration
	index   int
	count   int
	last    time.Time
}

// tick records a frame drawn at now and returns the average rate.
func (m *fpsMeter) tick(now time.Time) int {
	if m.last.IsZero() {
		m.last = now
		return 0
	}
	d := now.Sub(m.last)
	m.last = now

	m.total -= m.periods[m.index]
	m.periods[m.index] = d
	m.total += d
	m.index = (m.index + 1) % fpsAverageCount
	if m.count < fpsAverageCount {
		m.count++
	}
	if m.total <= 0 {
		return 0
	}
	return int(time.Duration(m.count) * time.Second / m.total)
}
