package throttle

import "time"

// clock provides the current time. It is replaced in tests.
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// pacer decides when the next call may start. The zero last time means
// nothing has started yet, so the first call never waits.
type pacer struct {
	boundary time.Duration
	clock    clock
	last     time.Time
}

func newPacer(boundary time.Duration, c clock) *pacer {
	return &pacer{boundary: boundary, clock: c}
}

// evaluate reports whether a call may start now and, if not, how long to wait
// before asking again. A call may start only once strictly more than boundary
// has elapsed since the previous start; an exact tie waits.
func (p *pacer) evaluate() (time.Duration, bool) {
	if p.last.IsZero() {
		return 0, true
	}

	elapsed := p.clock.Now().Sub(p.last)
	delta := p.boundary - elapsed
	if delta < 0 {
		return 0, true
	}
	return delta, false
}

// mark records a start at the current time and returns it together with the
// spacing from the previous start (zero for the first start).
func (p *pacer) mark() (time.Time, time.Duration) {
	now := p.clock.Now()

	var interval time.Duration
	if !p.last.IsZero() {
		interval = now.Sub(p.last)
	}
	p.last = now

	return now, interval
}
