package models

// SettingsVersion is bumped whenever the persisted settings shape changes.
// Blobs written with another version are treated as corrupt.
const SettingsVersion = 1

// MaxPoolSize caps welcome + news + internal cards combined
const MaxPoolSize = 12

// TimeWindow is a labeled time-of-day range shown as a full-screen overlay
type TimeWindow struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Label string `json:"label" yaml:"label" validate:"required"`
	Start string `json:"start" yaml:"start" validate:"clock"` // "HH:mm"
	End   string `json:"end" yaml:"end" validate:"clock"`     // "HH:mm"
}

// Settings is the user-editable configuration of the display
type Settings struct {
	Version            int             `json:"version" yaml:"version"`
	NewsSource         string          `json:"news_source,omitempty" yaml:"news_source,omitempty"`
	Location           string          `json:"location" yaml:"location" validate:"required"`
	RotationIntervalMs int             `json:"rotation_interval_ms" yaml:"rotation_interval_ms" validate:"min=5000,max=60000"`
	TransitionMs       int             `json:"transition_ms" yaml:"transition_ms" validate:"min=200,max=2000"`
	ShowWelcomePanel   bool            `json:"show_welcome_panel" yaml:"show_welcome_panel"`
	WelcomeCards       []WelcomeCard   `json:"welcome_cards" yaml:"welcome_cards" validate:"dive"`
	CustomNews         []NewsItem      `json:"custom_news" yaml:"custom_news" validate:"dive"`
	InternalPanels     []InternalPanel `json:"internal_panels" yaml:"internal_panels" validate:"dive"`
	TimeOverlays       []TimeWindow    `json:"time_overlays" yaml:"time_overlays" validate:"dive"`
}

// PoolSize returns the number of configured cards counted against MaxPoolSize
func (s Settings) PoolSize() int {
	return len(s.WelcomeCards) + len(s.CustomNews) + len(s.InternalPanels)
}

// Clone returns a copy that shares no slices with s
func (s Settings) Clone() Settings {
	out := s
	out.WelcomeCards = append([]WelcomeCard(nil), s.WelcomeCards...)
	out.CustomNews = append([]NewsItem(nil), s.CustomNews...)
	out.InternalPanels = append([]InternalPanel(nil), s.InternalPanels...)
	out.TimeOverlays = append([]TimeWindow(nil), s.TimeOverlays...)
	return out
}
