package carousel

import (
	"fmt"
	"math"
)

const (
	// BaseStackOrder is the stacking order of the focused slot; neighbors sit below it
	BaseStackOrder = 30

	// DefaultRadius shows four cards on each side of the focused one
	DefaultRadius = 4

	firstNeighborGap = 380.0
	neighborStep     = 260.0
)

// Slot is the visual transform of one rendered position around the focus
type Slot struct {
	Offset     int  // signed distance from focus
	ItemIndex  int  // index into the card sequence
	Active     bool // the focused slot
	Opacity    float64
	Scale      float64
	X          float64 // horizontal offset from center
	Z          float64 // depth, 0 for the focused slot
	Blur       float64
	Grayscale  float64 // percent
	StackOrder int
	Key        string // distinct per (item, focus, offset) so transitions track physical slots
}

// ComputeLayout returns the slots for offsets -radius..+radius around focus in
// a ring of length items. An empty ring has no slots.
func ComputeLayout(focus, length, radius int) []Slot {
	if length <= 0 {
		return nil
	}
	if radius < 0 {
		radius = 0
	}

	slots := make([]Slot, 0, 2*radius+1)
	for o := -radius; o <= radius; o++ {
		idx := ring(focus+o, length)
		s := SlotAt(o)
		s.ItemIndex = idx
		s.Key = fmt.Sprintf("%d-%d-%d", idx, focus, o)
		slots = append(slots, s)
	}
	return slots
}

// SlotAt computes the transform for a single offset. ItemIndex and Key are
// left zero since they depend on the ring.
func SlotAt(offset int) Slot {
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	a := float64(abs)

	if offset == 0 {
		return Slot{
			Offset:     0,
			Active:     true,
			Opacity:    1.0,
			Scale:      1.05,
			StackOrder: BaseStackOrder,
		}
	}

	sign := 1.0
	if offset < 0 {
		sign = -1.0
	}

	return Slot{
		Offset:     offset,
		Opacity:    math.Max(0.1, 0.9-a*0.22),
		Scale:      math.Max(0, 0.85-a*0.08),
		X:          sign * (firstNeighborGap + (a-1)*neighborStep),
		Z:          -100 * a,
		Blur:       a * 0.5,
		Grayscale:  math.Min(100, a*15),
		StackOrder: BaseStackOrder - abs,
	}
}

// ring maps any integer onto [0, n)
func ring(i, n int) int {
	return ((i % n) + n) % n
}
