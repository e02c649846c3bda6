// Package overlay decides which labeled time window, if any, is active at a
// given time of day. Windows live on a 24-hour ring: a window whose end is
// not after its start wraps past midnight.
package overlay

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"go.uber.org/zap"
)

// MinutesPerDay is the size of the time-of-day ring
const MinutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// Window is a compiled time window
type Window struct {
	ID    string
	Label string
	Start int // minutes since midnight
	End   int
	Valid bool // false when either clock string failed to parse; such a window never matches
}

// ParseClock converts "HH:mm" (or "H:mm") to minutes since midnight
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q: want HH:mm", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, nil
}

// Minutes returns t's local time of day in minutes since midnight
func Minutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Overnight reports whether the window wraps past midnight. A window with
// equal start and end is overnight and covers the whole day.
func (w Window) Overnight() bool {
	return w.Start >= w.End
}

// Contains reports whether now (minutes since midnight) falls inside the window
func (w Window) Contains(now int) bool {
	if !w.Valid {
		return false
	}
	if w.Start < w.End {
		return now >= w.Start && now < w.End
	}
	return now >= w.Start || now < w.End
}

// Compile parses configured windows, keeping list order. Malformed windows
// are kept but marked invalid and logged.
func Compile(windows []models.TimeWindow, logger *zap.Logger) []Window {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]Window, 0, len(windows))
	for _, tw := range windows {
		w := Window{ID: tw.ID, Label: tw.Label, Valid: true}

		start, err := ParseClock(tw.Start)
		if err != nil {
			logger.Warn("time window never matches", zap.String("id", tw.ID), zap.Error(err))
			w.Valid = false
		}
		end, err := ParseClock(tw.End)
		if err != nil {
			logger.Warn("time window never matches", zap.String("id", tw.ID), zap.Error(err))
			w.Valid = false
		}

		w.Start, w.End = start, end
		out = append(out, w)
	}
	return out
}

// Evaluate returns the label of the first window containing now
func Evaluate(now int, windows []Window) (string, bool) {
	for _, w := range windows {
		if w.Contains(now) {
			return w.Label, true
		}
	}
	return "", false
}

// Evaluator tracks the active label for a set of windows
type Evaluator struct {
	windows []Window
	label   string
	active  bool
}

// NewEvaluator compiles windows into an evaluator
func NewEvaluator(windows []models.TimeWindow, logger *zap.Logger) *Evaluator {
	return &Evaluator{windows: Compile(windows, logger)}
}

// SetWindows replaces the windows. The label is recomputed on the next Tick.
func (e *Evaluator) SetWindows(windows []models.TimeWindow, logger *zap.Logger) {
	e.windows = Compile(windows, logger)
}

// Tick re-evaluates at now and reports whether the active label changed
func (e *Evaluator) Tick(now time.Time) bool {
	label, ok := Evaluate(Minutes(now), e.windows)
	changed := label != e.label || ok != e.active
	e.label, e.active = label, ok
	return changed
}

// Label returns the active label, if any
func (e *Evaluator) Label() (string, bool) {
	return e.label, e.active
}
