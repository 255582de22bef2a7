package feed

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/samsun-news/app/database"
)

func TestGeneratorRun(t *testing.T) {
	published := time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC)
	image := "https://cdn.example.com/a.JPG"
	favicon := "https://icons.duckduckgo.com/ip3/example.com.ico"

	articles := []database.Article{
		{
			GUID:      "https://example.com/a",
			URL:       "https://example.com/a",
			Title:     "Fish & chips <today>",
			Source:    "example.com",
			Published: &published,
			ImageURL:  &image,
			Summary:   "Line one\nLine two",
			Category:  database.CategoryLocal,
			CreatedAt: published.Add(time.Hour),
		},
		{
			GUID:      "tag:example.com,2024:b",
			URL:       "https://example.com/b",
			Title:     "Undated",
			Source:    "example.com",
			ImageURL:  &favicon,
			Category:  database.CategoryLocal,
			CreatedAt: published.Add(-time.Hour),
		},
	}

	rss, err := NewGenerator().Run(Channel{
		Title:       "Samsun News",
		Link:        "http://localhost:8000/",
		Description: "Local articles",
		SelfLink:    "http://localhost:8000/rss?category=local",
		Generator:   "samsun-news/test",
	}, articles)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var doc struct {
		Channel struct {
			Title         string `xml:"title"`
			LastBuildDate string `xml:"lastBuildDate"`
			Items         []struct {
				GUID struct {
					Value     string `xml:",chardata"`
					PermaLink string `xml:"isPermaLink,attr"`
				} `xml:"guid"`
				Title  string `xml:"title"`
				Source struct {
					Value string `xml:",chardata"`
					URL   string `xml:"url,attr"`
				} `xml:"source"`
				PubDate   string `xml:"pubDate"`
				Enclosure struct {
					URL  string `xml:"url,attr"`
					Type string `xml:"type,attr"`
				} `xml:"enclosure"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal([]byte(rss), &doc); err != nil {
		t.Fatalf("Generated RSS is not valid XML: %v\n%s", err, rss)
	}

	if doc.Channel.Title != "Samsun News" {
		t.Errorf("Expected channel title 'Samsun News', got '%s'", doc.Channel.Title)
	}
	if doc.Channel.LastBuildDate != published.Format(time.RFC1123Z) {
		t.Errorf("Expected lastBuildDate from newest article, got '%s'", doc.Channel.LastBuildDate)
	}
	if len(doc.Channel.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(doc.Channel.Items))
	}

	first, second := doc.Channel.Items[0], doc.Channel.Items[1]
	if first.Title != "Fish & chips <today>" {
		t.Errorf("Title not escaped and restored correctly: '%s'", first.Title)
	}
	if first.GUID.PermaLink != "true" || second.GUID.PermaLink != "false" {
		t.Errorf("Unexpected isPermaLink values: %s, %s", first.GUID.PermaLink, second.GUID.PermaLink)
	}
	if first.Source.Value != "example.com" || first.Source.URL != "https://example.com/" {
		t.Errorf("Expected source with url attribute, got '%s' url='%s'", first.Source.Value, first.Source.URL)
	}
	if first.Enclosure.Type != "image/jpeg" {
		t.Errorf("Expected image/jpeg enclosure, got '%s'", first.Enclosure.Type)
	}
	if second.PubDate != "" {
		t.Errorf("Undated article should have no pubDate, got '%s'", second.PubDate)
	}
	if second.Enclosure.Type != "image/x-icon" {
		t.Errorf("Expected favicon enclosure, got '%s'", second.Enclosure.Type)
	}
	if !strings.Contains(rss, `rel="self"`) {
		t.Error("RSS should contain atom self link")
	}
}

func TestGeneratorRunEmpty(t *testing.T) {
	rss, err := NewGenerator().Run(Channel{Title: "Empty"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Empty article list should produce no items")
	}
	if strings.Contains(rss, "atom:link") {
		t.Error("No self link expected when none is configured")
	}
}

func TestImageType(t *testing.T) {
	tests := map[string]string{
		"https://cdn.example.com/a.png":        "image/png",
		"https://cdn.example.com/a.webp?w=300": "image/webp",
		"https://cdn.example.com/a.jpeg":       "image/jpeg",
		"https://cdn.example.com/story":        "",
		"https://cdn.example.com/clip.mp4":     "",
	}

	for raw, want := range tests {
		if got := imageType(raw); got != want {
			t.Errorf("imageType(%q) = %q, want %q", raw, got, want)
		}
	}
}
