package carousel

import (
	"sort"
	"sync"
	"time"
)

// Scheduler arms repeating timers. The returned cancel func releases the
// timer and is safe to call more than once.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs timers on the wall clock
type TickerScheduler struct{}

// Every starts a ticker goroutine that calls fn every interval until cancelled
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(stop)
		})
	}
}

// ManualScheduler is a virtual-clock scheduler. Time only moves on Advance,
// which makes timer behavior deterministic in tests and the offline demo.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
}

// NewManualScheduler creates a scheduler at virtual time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[int]*manualTimer)}
}

// Every registers a repeating timer whose first fire is one interval from now
func (s *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.timers[id] = &manualTimer{id: id, interval: interval, next: s.now + interval, fn: fn}

	return func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
	}
}

// Advance moves virtual time forward by d, firing due timers in order.
// Callbacks run without the scheduler lock held so they may arm or cancel timers.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.next
		t.next += t.interval
		fn := t.fn
		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// nextDue returns the earliest timer due at or before target. Caller holds mu.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if t.interval > 0 && t.next <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next == due[j].next {
			return due[i].id < due[j].id
		}
		return due[i].next < due[j].next
	})
	return due[0]
}

// Active returns the number of armed timers
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Now returns the current virtual time
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
