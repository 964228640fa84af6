package viewer

import "time"

// maxTicksPerFrame bounds catch-up after a slow frame.
const maxTicksPerFrame = 10

// Scheduler paces simulation ticks against wall-clock frame time. Queued
// runs play even while paused; when unpaused it ticks continuously.
type Scheduler struct {
	Delay  time.Duration // time between ticks, 0 = one tick per frame
	Paused bool

	pending int
	acc     time.Duration
}

// Queue adds n ticks to the current run.
func (s *Scheduler) Queue(n int) {
	if n > 0 {
		s.pending += n
	}
}

// Pending returns the ticks left in the current run.
func (s *Scheduler) Pending() int { return s.pending }

// Cancel drops the current run.
func (s *Scheduler) Cancel() {
	s.pending = 0
	s.acc = 0
}

// Active reports whether ticks are being produced.
func (s *Scheduler) Active() bool {
	return s.pending > 0 || !s.Paused
}

// Advance accounts for dt of elapsed time and returns how many ticks are due.
func (s *Scheduler) Advance(dt time.Duration) int {
	if !s.Active() {
		s.acc = 0
		return 0
	}

	n := 1
	if s.Delay > 0 {
		s.acc += dt
		n = int(s.acc / s.Delay)
		s.acc -= time.Duration(n) * s.Delay
	}
	if n > maxTicksPerFrame {
		n = maxTicksPerFrame
		s.acc = 0
	}
	if s.pending > 0 {
		n = min(n, s.pending)
		s.pending -= n
	}
	return n
}

// Faster halves the delay, down to one tick per frame.
func (s *Scheduler) Faster() {
	s.Delay /= 2
	if s.Delay < time.Millisecond {
		s.Delay = 0
	}
}

// Slower doubles the delay, up to one tick per two seconds.
func (s *Scheduler) Slower() {
	if s.Delay == 0 {
		s.Delay = 10 * time.Millisecond
		return
	}
	s.Delay = min(s.Delay*2, 2*time.Second)
}
