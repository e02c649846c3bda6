package models

const (
	DefaultLocation           = "Tokyo, JP"
	DefaultRotationIntervalMs = 12000
	DefaultTransitionMs       = 800
	DefaultNewsSource         = "https://techcrunch.com/feed/"

	// DefaultWeatherImage is the daytime background, also used by the fallback record
	DefaultWeatherImage = "https://images.unsplash.com/photo-1542259009477-d625272157b7?auto=format&fit=crop&q=80&w=1600"
	DefaultNewsImage    = "https://images.unsplash.com/photo-1542259009477-d625272157b7?auto=format&fit=crop&q=80&w=1200"
)

// DefaultSettings returns the built-in configuration used on first start and
// whenever persisted settings cannot be loaded
func DefaultSettings() Settings {
	return Settings{
		Version:            SettingsVersion,
		NewsSource:         DefaultNewsSource,
		Location:           DefaultLocation,
		RotationIntervalMs: DefaultRotationIntervalMs,
		TransitionMs:       DefaultTransitionMs,
		ShowWelcomePanel:   true,
		WelcomeCards: []WelcomeCard{
			{
				ID:      "wc1",
				Company: "Bekind Labs",
				Team:    "Product Design Team",
				Message: "We are delighted to have you with us today.",
			},
		},
		InternalPanels: []InternalPanel{
			{
				ID:       "p1",
				Title:    "Quarterly Strategy Alignment",
				Author:   "Kenji Sato",
				Category: "OPERATIONS",
				Content:  "We will be reviewing our roadmap for Q1 next week. Please ensure all project trackers are updated by Friday EOD.",
			},
		},
		CustomNews: []NewsItem{
			{
				ID:       "cn1",
				Title:    "The Future of Quantum Computing in Enterprise",
				Summary:  "Quantum processors are reaching stability levels previously thought impossible, opening doors for real-time encryption and molecular modeling at scale.",
				ImageURL: "https://images.unsplash.com/photo-1635070041078-e363dbe005cb?auto=format&fit=crop&q=80&w=1200",
				Source:   "TechCrunch",
				URL:      "https://techcrunch.com",
			},
		},
		TimeOverlays: []TimeWindow{
			{ID: "to1", Label: "Good Morning", Start: "08:00", End: "09:00"},
			{ID: "to2", Label: "Lunch Time", Start: "11:45", End: "12:45"},
			{ID: "to3", Label: "Leave Work", Start: "18:00", End: "08:00"},
		},
	}
}

// Template records appended by the configuration panel

func NewWelcomeTemplate(id string) WelcomeCard {
	return WelcomeCard{ID: id, Company: "Bekind Labs", Team: "New Team", Message: "Welcome message here."}
}

func NewNewsTemplate(id string) NewsItem {
	return NewsItem{ID: id, Title: "New Article", ImageURL: DefaultNewsImage, Source: "Feed"}
}

func NewInternalTemplate(id string) InternalPanel {
	return InternalPanel{ID: id, Title: "New Announcement", Author: "Team Member", Category: "SHARED"}
}

func NewTimeWindowTemplate(id string) TimeWindow {
	return TimeWindow{ID: id, Label: "New Message", Start: "12:00", End: "13:00"}
}
