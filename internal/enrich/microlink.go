// Package enrich fills news and internal panel records from the page
// metadata of their URL.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"go.uber.org/zap"
)

// Metadata is the page information returned by Microlink
type Metadata struct {
	Title       string
	Description string
	ImageURL    string
	Publisher   string
}

type microlinkResponse struct {
	Status string `json:"status"`
	Data   struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Publisher   string `json:"publisher"`
		Image       *struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"data"`
}

// Client fetches page metadata from the Microlink API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the public Microlink API
func NewClient(logger *zap.Logger) *Client {
	return NewClientWithURL("https://api.microlink.io", logger)
}

// NewClientWithURL creates a client against baseURL
func NewClientWithURL(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Fetch returns metadata for pageURL
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Metadata, error) {
	if pageURL == "" {
		return nil, fmt.Errorf("url cannot be empty")
	}

	reqURL := fmt.Sprintf("%s?url=%s", c.baseURL, url.QueryEscape(pageURL))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var body microlinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("microlink returned status %q (HTTP %d)", body.Status, resp.StatusCode)
	}

	md := &Metadata{
		Title:       body.Data.Title,
		Description: body.Data.Description,
		Publisher:   body.Data.Publisher,
	}
	if body.Data.Image != nil {
		md.ImageURL = body.Data.Image.URL
	}
	return md, nil
}

// News merges page metadata into item. On failure the item is returned unchanged.
func (c *Client) News(ctx context.Context, item models.NewsItem) models.NewsItem {
	md, err := c.Fetch(ctx, item.URL)
	if err != nil {
		c.logger.Warn("failed to fetch news metadata", zap.String("id", item.ID), zap.String("url", item.URL), zap.Error(err))
		return item
	}

	item.Title = firstNonEmpty(md.Title, item.Title)
	item.Summary = firstNonEmpty(md.Description, item.Summary)
	item.ImageURL = firstNonEmpty(md.ImageURL, item.ImageURL)
	item.Source = firstNonEmpty(md.Publisher, hostname(item.URL))
	return item
}

// Internal merges page metadata into panel. On failure the panel is returned unchanged.
func (c *Client) Internal(ctx context.Context, panel models.InternalPanel) models.InternalPanel {
	md, err := c.Fetch(ctx, panel.URL)
	if err != nil {
		c.logger.Warn("failed to fetch panel metadata", zap.String("id", panel.ID), zap.String("url", panel.URL), zap.Error(err))
		return panel
	}

	panel.Title = firstNonEmpty(md.Title, panel.Title)
	panel.ImageURL = firstNonEmpty(md.ImageURL, panel.ImageURL)
	panel.Content = firstNonEmpty(md.Description, panel.Content)
	return panel
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
