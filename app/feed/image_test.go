package feed

import "testing"

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		fallback string
		expected string
	}{
		{
			name: "media content wins over embedded image",
			entry: Entry{
				MediaContent: []MediaRef{{URL: "https://cdn.example.com/media.jpg"}},
				Description:  `<p><img src="https://example.com/inline.jpg"></p>`,
			},
			expected: "https://cdn.example.com/media.jpg",
		},
		{
			name: "media href attribute",
			entry: Entry{
				MediaContent: []MediaRef{{Href: "https://cdn.example.com/href.jpg"}},
			},
			expected: "https://cdn.example.com/href.jpg",
		},
		{
			name: "thumbnail when first content has no url",
			entry: Entry{
				MediaContent:    []MediaRef{{}, {URL: "https://cdn.example.com/second.jpg"}},
				MediaThumbnails: []MediaRef{{URL: "https://cdn.example.com/thumb.jpg"}},
			},
			expected: "https://cdn.example.com/thumb.jpg",
		},
		{
			name: "image enclosure, case-insensitive extension",
			entry: Entry{
				Enclosures:  []string{"https://example.com/audio.mp3", "https://example.com/photo.JPEG"},
				Description: `<img src="https://example.com/inline.jpg">`,
			},
			expected: "https://example.com/photo.JPEG",
		},
		{
			name: "content img before description img",
			entry: Entry{
				Content:     `<div><img src="https://example.com/content.png"></div>`,
				Description: `<img src="https://example.com/desc.png">`,
			},
			expected: "https://example.com/content.png",
		},
		{
			name: "description img when content has none",
			entry: Entry{
				Content:     `<p>no images here</p>`,
				Description: `<p>text <img src="https://example.com/desc.png"> more</p>`,
			},
			expected: "https://example.com/desc.png",
		},
		{
			name:     "favicon from fallback domain",
			entry:    Entry{Link: "https://www.example.com/story"},
			fallback: "news.example.org",
			expected: "https://icons.duckduckgo.com/ip3/news.example.org.ico",
		},
		{
			name:     "favicon from entry link",
			entry:    Entry{Link: "https://www.example.com/story"},
			expected: "https://icons.duckduckgo.com/ip3/www.example.com.ico",
		},
		{
			name:     "nothing available",
			entry:    Entry{Enclosures: []string{"https://example.com/file.pdf"}},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveImage(tt.entry, tt.fallback); got != tt.expected {
				t.Errorf("ResolveImage() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestResolveImageIsDeterministic(t *testing.T) {
	entry := Entry{
		Link:        "https://example.com/a",
		Description: `<img src="https://example.com/1.jpg"><img src="https://example.com/2.jpg">`,
	}

	first := ResolveImage(entry, "example.com")
	for i := 0; i < 5; i++ {
		if got := ResolveImage(entry, "example.com"); got != first {
			t.Fatalf("Expected %q on every call, got %q", first, got)
		}
	}
	if first != "https://example.com/1.jpg" {
		t.Errorf("Expected first image, got %q", first)
	}
}
