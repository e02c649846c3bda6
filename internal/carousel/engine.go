// Package carousel owns rotation state for the signage deck: the focused
// card, the auto-advance timer, and the per-slot layout around the focus.
package carousel

import (
	"sync"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"go.uber.org/zap"
)

// Cause describes why focus changed
type Cause string

const (
	CauseTick   Cause = "tick"
	CauseSelect Cause = "select"
	CauseReset  Cause = "reset"
)

// Snapshot is a point-in-time view of the engine published on every focus change
type Snapshot struct {
	Focus      int
	Len        int
	Generation uint64 // bumped whenever a new sequence is installed
	Cause      Cause
}

// Recorder observes focus changes, e.g. for metrics
type Recorder interface {
	ObserveAdvance(cause string)
}

// Option configures an Engine
type Option func(*Engine)

// WithScheduler replaces the wall-clock scheduler
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithRecorder reports every focus change to r
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTiming sets the initial rotation interval and transition duration
func WithTiming(interval, transition time.Duration) Option {
	return func(e *Engine) {
		e.interval = interval
		e.transition = transition
	}
}

// Engine is the carousel state machine. All mutations are serialized by mu;
// the auto-advance timer is the only writer besides the public methods.
type Engine struct {
	mu         sync.Mutex
	cards      []models.Card
	focus      int
	interval   time.Duration
	transition time.Duration
	generation uint64

	started bool
	cancel  func() // active timer, nil when disarmed
	armID   uint64 // identifies the active timer; stale ticks carry an older id

	sched    Scheduler
	recorder Recorder
	logger   *zap.Logger
	updates  chan Snapshot
}

// New creates a stopped engine with an empty sequence
func New(opts ...Option) *Engine {
	e := &Engine{
		interval:   time.Duration(models.DefaultRotationIntervalMs) * time.Millisecond,
		transition: time.Duration(models.DefaultTransitionMs) * time.Millisecond,
		sched:      TickerScheduler{},
		logger:     zap.NewNop(),
		updates:    make(chan Snapshot, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start enables auto-advance. The timer is armed only while the sequence is non-empty.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = true
	e.rearmLocked()
}

// Stop releases the active timer. The engine keeps its state and can be restarted.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = false
	e.disarmLocked()
}

// SetSequence installs a new card sequence, resets focus to 0 and restarts the timer
func (e *Engine) SetSequence(cards []models.Card) {
	e.mu.Lock()
	e.cards = append([]models.Card(nil), cards...)
	e.focus = 0
	e.generation++
	e.rearmLocked()
	snap := e.snapshotLocked(CauseReset)
	e.mu.Unlock()

	e.logger.Debug("sequence installed",
		zap.Int("cards", snap.Len),
		zap.Uint64("generation", snap.Generation),
	)
	e.publish(snap)
}

// SetTiming updates the rotation interval and transition duration. A changed
// interval tears down the current timer and arms a fresh one.
func (e *Engine) SetTiming(interval, transition time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.transition = transition
	if interval == e.interval {
		return
	}
	e.interval = interval
	e.rearmLocked()
	e.logger.Debug("rotation interval changed", zap.Duration("interval", interval))
}

// Advance moves focus one card forward. No-op on an empty sequence.
func (e *Engine) Advance() {
	e.mu.Lock()
	if !e.advanceLocked() {
		e.mu.Unlock()
		return
	}
	snap := e.snapshotLocked(CauseTick)
	e.mu.Unlock()
	e.observe(snap)
}

// SelectOffset moves focus by offset slots, wrapping in both directions.
// Offset 0 selects the focused slot and changes nothing.
func (e *Engine) SelectOffset(offset int) {
	e.mu.Lock()
	n := len(e.cards)
	if n == 0 || offset == 0 {
		e.mu.Unlock()
		return
	}
	e.focus = ring(e.focus+offset, n)
	snap := e.snapshotLocked(CauseSelect)
	e.mu.Unlock()
	e.observe(snap)
}

// SelectIndex jumps to index i. Out-of-range indexes are ignored and report false.
func (e *Engine) SelectIndex(i int) bool {
	e.mu.Lock()
	if i < 0 || i >= len(e.cards) {
		e.mu.Unlock()
		return false
	}
	e.focus = i
	snap := e.snapshotLocked(CauseSelect)
	e.mu.Unlock()
	e.observe(snap)
	return true
}

// Layout computes the visible slots around the focus
func (e *Engine) Layout(radius int) []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeLayout(e.focus, len(e.cards), radius)
}

// Card returns the card at index i
func (e *Engine) Card(i int) (models.Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.cards) {
		return models.Card{}, false
	}
	return e.cards[i], true
}

// Cards returns a copy of the current sequence
func (e *Engine) Cards() []models.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Card(nil), e.cards...)
}

// Focus returns the focused index
func (e *Engine) Focus() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focus
}

// Len returns the sequence length
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cards)
}

// Snapshot returns the current state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked("")
}

// Interval returns the rotation interval
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

// Transition returns the transition duration
func (e *Engine) Transition() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transition
}

// Armed reports whether an auto-advance timer is active
func (e *Engine) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}

// Updates delivers the latest snapshot after each focus change. Only the
// most recent snapshot is kept when the reader falls behind.
func (e *Engine) Updates() <-chan Snapshot {
	return e.updates
}

func (e *Engine) advanceLocked() bool {
	n := len(e.cards)
	if n == 0 {
		return false
	}
	e.focus = (e.focus + 1) % n
	return true
}

// rearmLocked tears down any active timer and arms a new one if the engine
// is started, has cards, and has a positive interval
func (e *Engine) rearmLocked() {
	e.disarmLocked()
	if !e.started || len(e.cards) == 0 || e.interval <= 0 {
		return
	}

	id := e.armID
	e.cancel = e.sched.Every(e.interval, func() { e.tick(id) })
}

func (e *Engine) disarmLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.armID++
}

// tick is the timer callback. Ticks from a torn-down timer are dropped.
func (e *Engine) tick(id uint64) {
	e.mu.Lock()
	if id != e.armID || e.cancel == nil {
		e.mu.Unlock()
		return
	}
	if !e.advanceLocked() {
		e.mu.Unlock()
		return
	}
	snap := e.snapshotLocked(CauseTick)
	e.mu.Unlock()
	e.observe(snap)
}

func (e *Engine) snapshotLocked(cause Cause) Snapshot {
	return Snapshot{
		Focus:      e.focus,
		Len:        len(e.cards),
		Generation: e.generation,
		Cause:      cause,
	}
}

func (e *Engine) observe(snap Snapshot) {
	if e.recorder != nil {
		e.recorder.ObserveAdvance(string(snap.Cause))
	}
	e.publish(snap)
}

// publish replaces any unread snapshot with snap
func (e *Engine) publish(snap Snapshot) {
	for {
		select {
		case e.updates <- snap:
			return
		default:
		}
		select {
		case <-e.updates:
		default:
		}
	}
}
