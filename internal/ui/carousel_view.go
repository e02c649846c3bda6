package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
)

const (
	minCardWidth  = 10
	minCardHeight = 5
	slotGap       = 1
	frameWidth    = 2 // left and right border
	framePadding  = 4 // horizontal padding inside the border
)

// baseCardWidth is the unscaled card width for the terminal
func (m Model) baseCardWidth() int {
	return clamp(m.width*2/5, 24, 52)
}

// baseCardHeight is the unscaled card height for the terminal
func (m Model) baseCardHeight() int {
	return clamp(m.height-8, minCardHeight, 18)
}

func slotWidth(s carousel.Slot, base int) int {
	return max(minCardWidth, int(float64(base)*s.Scale))
}

func slotHeight(s carousel.Slot, base int) int {
	return max(minCardHeight, int(float64(base)*s.Scale))
}

// renderedRadius is the configured radius, reduced so the row fits the
// terminal and so a short deck does not show the same card twice
func (m Model) renderedRadius() int {
	n := m.engine.Len()
	if n == 0 {
		return 0
	}

	r := min(m.radius, (n-1)/2)
	base := m.baseCardWidth()
	for r > 0 && rowWidth(r, base) > m.width {
		r--
	}
	return r
}

// rowWidth is the total width of a carousel row with radius r
func rowWidth(r, base int) int {
	total := 0
	for off := -r; off <= r; off++ {
		total += slotWidth(carousel.SlotAt(off), base) + frameWidth + slotGap
	}
	return total - slotGap
}

// viewCarousel renders the visible slots left to right
func (m Model) viewCarousel() string {
	slots := m.engine.Layout(m.renderedRadius())
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].X < slots[j].X })

	baseW, baseH := m.baseCardWidth(), m.baseCardHeight()
	blocks := make([]string, 0, len(slots)*2)
	for i, s := range slots {
		if i > 0 {
			blocks = append(blocks, strings.Repeat(" ", slotGap))
		}
		blocks = append(blocks, m.zones.Mark(m.slotZoneID(s.Offset), m.renderSlot(s, baseW, baseH)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, blocks...)
}

// renderSlot draws one card with the slot's visual treatment
func (m Model) renderSlot(s carousel.Slot, baseW, baseH int) string {
	card, ok := m.engine.Card(s.ItemIndex)
	if !ok {
		return ""
	}

	w, h := slotWidth(s, baseW), slotHeight(s, baseH)

	style := cardStyle
	switch {
	case s.Active:
		style = activeCardStyle
	case s.Grayscale >= 45:
		style = style.BorderForeground(colorFaded)
	}
	style = style.Foreground(brightness(s.Opacity)).Width(w).Height(h)
	if s.Blur >= 1 {
		style = style.Faint(true)
	}

	body := renderCard(card, w-framePadding, s.Active, m.now)
	return style.Render(clampLines(body, h-2))
}

// viewPagination renders one dot per card
func (m Model) viewPagination() string {
	n := m.engine.Len()
	focus := m.engine.Focus()

	dots := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dot := dotStyle.Render("○")
		if i == focus {
			dot = activeDotStyle.Render("●")
		}
		dots = append(dots, m.zones.Mark(m.pageZoneID(i), dot))
	}
	return strings.Join(dots, " ")
}

// hitTest maps a left click to the slot or dot under the pointer
func (m Model) hitTest(msg tea.MouseMsg) tea.Msg {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	r := m.renderedRadius()
	for off := -r; off <= r; off++ {
		if off == 0 {
			continue
		}
		if z := m.zones.Get(m.slotZoneID(off)); z != nil && z.InBounds(msg) {
			return slotSelectedMsg{offset: off}
		}
	}

	for i := 0; i < m.engine.Len(); i++ {
		if z := m.zones.Get(m.pageZoneID(i)); z != nil && z.InBounds(msg) {
			return pageSelectedMsg{index: i}
		}
	}
	return nil
}

func (m Model) slotZoneID(offset int) string {
	return fmt.Sprintf("%sslot:%d", m.zonePrefix, offset)
}

func (m Model) pageZoneID(index int) string {
	return fmt.Sprintf("%spage:%d", m.zonePrefix, index)
}

// clampLines keeps at most n lines of s
func clampLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
