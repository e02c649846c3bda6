package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_EscapesURL(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("url")
		w.Write([]byte(`{"status":"success","data":{"title":"T"}}`))
	}))
	defer server.Close()

	md, err := NewClientWithURL(server.URL, nil).Fetch(context.Background(), "https://example.com/a?b=c&d=e")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a?b=c&d=e", got)
	assert.Equal(t, "T", md.Title)
}

func TestNews_MergesMetadata(t *testing.T) {
	server := newServer(t, `{"status":"success","data":{
		"title":"Chips get faster",
		"description":"A summary",
		"publisher":"The Verge",
		"image":{"url":"https://img.example.com/a.jpg"}
	}}`)
	c := NewClientWithURL(server.URL, nil)

	item := models.NewNewsTemplate("n1")
	item.URL = "https://www.theverge.com/story"
	got := c.News(context.Background(), item)

	assert.Equal(t, "n1", got.ID)
	assert.Equal(t, "Chips get faster", got.Title)
	assert.Equal(t, "A summary", got.Summary)
	assert.Equal(t, "https://img.example.com/a.jpg", got.ImageURL)
	assert.Equal(t, "The Verge", got.Source)
}

func TestNews_MissingFieldsKeepExisting(t *testing.T) {
	server := newServer(t, `{"status":"success","data":{"title":"Only a title"}}`)
	c := NewClientWithURL(server.URL, nil)

	item := models.NewsItem{
		ID:       "n1",
		Title:    "Old",
		Summary:  "Old summary",
		ImageURL: "https://old/img.jpg",
		Source:   "Feed",
		URL:      "https://news.example.org/path",
	}
	got := c.News(context.Background(), item)

	assert.Equal(t, "Only a title", got.Title)
	assert.Equal(t, "Old summary", got.Summary)
	assert.Equal(t, "https://old/img.jpg", got.ImageURL)
	assert.Equal(t, "news.example.org", got.Source, "source falls back to the URL host")
}

func TestNews_FailureLeavesRecord(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error status", `{"status":"fail","data":{"title":"ignored"}}`},
		{"bad json", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClientWithURL(newServer(t, tt.body).URL, nil)
			item := models.NewsItem{ID: "n1", Title: "Keep", URL: "https://example.com"}
			assert.Equal(t, item, c.News(context.Background(), item))
		})
	}

	c := NewClientWithURL("http://127.0.0.1:0", nil)
	item := models.NewsItem{ID: "n2", Title: "No URL"}
	assert.Equal(t, item, c.News(context.Background(), item))
}

func TestInternal_MergesMetadata(t *testing.T) {
	server := newServer(t, `{"status":"success","data":{
		"title":"Roadmap",
		"description":"Q1 planning notes",
		"publisher":"Wiki",
		"image":{"url":"https://img.example.com/r.png"}
	}}`)
	c := NewClientWithURL(server.URL, nil)

	panel := models.NewInternalTemplate("p9")
	panel.URL = "https://wiki.example.com/roadmap"
	got := c.Internal(context.Background(), panel)

	assert.Equal(t, "Roadmap", got.Title)
	assert.Equal(t, "Q1 planning notes", got.Content)
	assert.Equal(t, "https://img.example.com/r.png", got.ImageURL)
	assert.Equal(t, "Team Member", got.Author)
	assert.Equal(t, "SHARED", got.Category)
}
