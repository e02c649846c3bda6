package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/ngmaloney/signage-terminal/internal/models"
)

// cardRenderer draws card bodies. Frames and brightness are applied by the
// carousel view; this only lays out the text for one payload.
type cardRenderer struct {
	width  int // content width inside the frame
	active bool
	now    time.Time
}

var _ models.Matcher[string] = cardRenderer{}

// renderCard returns the body text for c
func renderCard(c models.Card, width int, active bool, now time.Time) string {
	return models.Match[string](c, cardRenderer{width: width, active: active, now: now})
}

func (r cardRenderer) Weather(w models.WeatherData) string {
	var b strings.Builder
	b.WriteString(kickerStyle.Render("WEATHER"))
	b.WriteString("\n")
	b.WriteString(r.wrap(w.Location))
	b.WriteString("\n\n")
	b.WriteString(tempStyle.Render(fmt.Sprintf("%d°C", w.Temp)))
	b.WriteString("  ")
	b.WriteString(w.Condition)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("H "))
	b.WriteString(fmt.Sprintf("%d°", w.High))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("L "))
	b.WriteString(fmt.Sprintf("%d°", w.Low))

	if r.active && !w.FetchedAt.IsZero() {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("updated " + humanize.RelTime(w.FetchedAt, r.now, "ago", "from now")))
	}
	return b.String()
}

func (r cardRenderer) News(n models.NewsItem) string {
	var b strings.Builder
	source := n.Source
	if source == "" {
		source = "NEWS"
	}
	b.WriteString(kickerStyle.Render(strings.ToUpper(source)))
	b.WriteString("\n\n")
	b.WriteString(headlineStyle.Render(r.wrap(n.Title)))

	if r.active && n.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(r.wrap(n.Summary))
	}
	return b.String()
}

func (r cardRenderer) Welcome(w models.WelcomeCard) string {
	var b strings.Builder
	b.WriteString(kickerStyle.Foreground(colorWarm).Render("WELCOME"))
	b.WriteString("\n\n")
	b.WriteString(headlineStyle.Render(r.wrap(w.Company)))
	if w.Team != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(r.wrap(w.Team)))
	}
	if r.active && w.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(r.wrap(w.Message))
	}
	return b.String()
}

func (r cardRenderer) Internal(p models.InternalPanel) string {
	var b strings.Builder
	category := p.Category
	if category == "" {
		category = "INTERNAL"
	}
	b.WriteString(kickerStyle.Render(strings.ToUpper(category)))
	b.WriteString("\n\n")
	b.WriteString(headlineStyle.Render(r.wrap(p.Title)))
	if p.Author != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("by " + p.Author))
	}

	body := p.Content
	if body == "" {
		body = p.Summary
	}
	if r.active && body != "" {
		b.WriteString("\n\n")
		b.WriteString(r.wrap(body))
	}
	return b.String()
}

func (r cardRenderer) wrap(s string) string {
	if r.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(r.width).Render(s)
}
