package models

import "time"

// CardKind identifies which payload a card carries
type CardKind string

const (
	KindWeather  CardKind = "weather"
	KindNews     CardKind = "news"
	KindWelcome  CardKind = "welcome"
	KindInternal CardKind = "internal"
)

// Payload is the sealed set of card contents. Only the four types in this
// file implement it.
type Payload interface {
	Kind() CardKind
	isPayload()
}

// Card is a single entry in the carousel sequence
type Card struct {
	ID      string
	Payload Payload
}

// Kind returns the kind of the card's payload, or "" for an empty card
func (c Card) Kind() CardKind {
	if c.Payload == nil {
		return ""
	}
	return c.Payload.Kind()
}

// WeatherData is the live weather card
type WeatherData struct {
	Temp      int    // Celsius
	Condition string // e.g. "Clear Sky", "Partly Cloudy"
	Location  string
	High      int
	Low       int
	ImageURL  string
	FetchedAt time.Time
}

// NewsItem is a curated news story
type NewsItem struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Title    string `json:"title" yaml:"title"`
	Summary  string `json:"summary" yaml:"summary"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	Source   string `json:"source" yaml:"source"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// WelcomeCard greets visitors with company branding
type WelcomeCard struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Company string `json:"company" yaml:"company"`
	Team    string `json:"team" yaml:"team"`
	Message string `json:"message" yaml:"message"`
}

// InternalPanel is an internal announcement shared by a team member
type InternalPanel struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Title    string `json:"title" yaml:"title"`
	Author   string `json:"author" yaml:"author"`
	Category string `json:"category" yaml:"category"`
	Content  string `json:"content" yaml:"content"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

func (WeatherData) Kind() CardKind   { return KindWeather }
func (NewsItem) Kind() CardKind      { return KindNews }
func (WelcomeCard) Kind() CardKind   { return KindWelcome }
func (InternalPanel) Kind() CardKind { return KindInternal }

func (WeatherData) isPayload()   {}
func (NewsItem) isPayload()      {}
func (WelcomeCard) isPayload()   {}
func (InternalPanel) isPayload() {}

// Matcher handles every card payload. Adding a payload type adds a method
// here, so every consumer stops compiling until it handles the new kind.
type Matcher[T any] interface {
	Weather(WeatherData) T
	News(NewsItem) T
	Welcome(WelcomeCard) T
	Internal(InternalPanel) T
}

// Match dispatches the card's payload to the matching Matcher method.
// An empty card yields the zero value.
func Match[T any](c Card, m Matcher[T]) T {
	switch p := c.Payload.(type) {
	case WeatherData:
		return m.Weather(p)
	case NewsItem:
		return m.News(p)
	case WelcomeCard:
		return m.Welcome(p)
	case InternalPanel:
		return m.Internal(p)
	}
	var zero T
	return zero
}
