package rtstate

import "time"

// Pacer schedules a periodic activity at a fixed rate: each boundary is one period after the
// previous boundary, not one period after the caller woke up, so lateness does not
// accumulate.
//
// If MaxLag is positive and the caller has fallen more than MaxLag behind, the schedule is
// restarted from the current time instead of trying to catch up.
type Pacer struct {
	period time.Duration
	maxLag time.Duration
	clock  Clock
	next   time.Time
}

// NewPacer starts a schedule at the current time of clock (SystemClock if nil).
func NewPacer(clock Clock, period, maxLag time.Duration) *Pacer {
	clock = clockOr(clock)
	return &Pacer{
		period: period,
		maxLag: maxLag,
		clock:  clock,
		next:   clock.Now(),
	}
}

// Next advances to the next boundary and returns how long to wait for it. The result is zero
// when the boundary has already passed.
func (p *Pacer) Next() time.Duration {
	now := p.clock.Now()
	p.next = p.next.Add(p.period)
	if p.maxLag > 0 && now.Sub(p.next) > p.maxLag {
		p.next = now
	}
	if d := p.next.Sub(now); d > 0 {
		return d
	}
	return 0
}

// boundary returns the most recent boundary handed out by Next.
func (p *Pacer) boundary() time.Time {
	return p.next
}
