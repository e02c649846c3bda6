package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#F5F5F5") // Near white for the focused card
	colorAccent    = lipgloss.Color("#7DD3FC") // Sky blue
	colorWarm      = lipgloss.Color("#FBBF24") // Amber for weather and welcome
	colorMuted     = lipgloss.Color("#6C757D") // Gray
	colorBorder    = lipgloss.Color("#3F3F46") // Dim border for side cards
	colorFaded     = lipgloss.Color("#27272A") // Border of desaturated cards
	colorBackdrop  = lipgloss.Color("#010101")
	colorOverlayBg = lipgloss.Color("#0A0A0A")

	// Card frames
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	// Content styles
	kickerStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	headlineStyle = lipgloss.NewStyle().
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	tempStyle = lipgloss.NewStyle().
			Foreground(colorWarm).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Pagination
	dotStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	activeDotStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	// Full-screen time overlay
	overlayLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(1, 4)

	overlayClockStyle = lipgloss.NewStyle().
				Foreground(colorMuted)
)

// brightness maps a slot opacity in [0,1] to a gray foreground
func brightness(opacity float64) lipgloss.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	level := 40 + int(215*opacity)
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", level, level, level))
}
