package viewer

import (
	"testing"
	"time"
)

func TestScheduler_PausedIdle(t *testing.T) {
	s := Scheduler{Delay: 100 * time.Millisecond, Paused: true}
	for range 5 {
		if n := s.Advance(time.Second); n != 0 {
			t.Fatalf("paused scheduler produced %d ticks", n)
		}
	}
}

func TestScheduler_QueuedRunWhilePaused(t *testing.T) {
	s := Scheduler{Delay: 100 * time.Millisecond, Paused: true}
	s.Queue(3)

	total := 0
	for range 10 {
		total += s.Advance(60 * time.Millisecond)
	}
	if total != 3 {
		t.Errorf("ran %d ticks, want 3", total)
	}
	if s.Pending() != 0 || s.Active() {
		t.Errorf("pending = %d, active = %v after run", s.Pending(), s.Active())
	}
}

func TestScheduler_Pacing(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		dts   []time.Duration
		want  []int
	}{
		{"one per frame without delay", 0, []time.Duration{time.Millisecond, time.Second}, []int{1, 1}},
		{"accumulates", 100 * time.Millisecond, []time.Duration{60 * time.Millisecond, 60 * time.Millisecond, 250 * time.Millisecond}, []int{0, 1, 2}},
		{"capped catch-up", 10 * time.Millisecond, []time.Duration{time.Second, 10 * time.Millisecond}, []int{maxTicksPerFrame, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Scheduler{Delay: tt.delay}
			for i, dt := range tt.dts {
				if got := s.Advance(dt); got != tt.want[i] {
					t.Errorf("frame %d: Advance(%v) = %d, want %d", i, dt, got, tt.want[i])
				}
			}
		})
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := Scheduler{Paused: true}
	s.Queue(5)
	s.Advance(time.Millisecond)
	s.Cancel()
	if s.Pending() != 0 || s.Advance(time.Second) != 0 {
		t.Error("cancelled run kept ticking")
	}
}

func TestScheduler_Speed(t *testing.T) {
	s := Scheduler{Delay: 4 * time.Millisecond}
	s.Faster()
	s.Faster()
	s.Faster()
	if s.Delay != 0 {
		t.Errorf("delay = %v, want 0 after speeding up", s.Delay)
	}
	s.Slower()
	if s.Delay != 10*time.Millisecond {
		t.Errorf("delay = %v, want 10ms", s.Delay)
	}
	for range 20 {
		s.Slower()
	}
	if s.Delay != 2*time.Second {
		t.Errorf("delay = %v, want 2s cap", s.Delay)
	}
}
