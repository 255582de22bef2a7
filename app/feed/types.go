package feed

import (
	"time"
)

type Metadata struct {
	Title string
	Link  string
}

// Entry is one feed item as parsed, before it becomes an article.
type Entry struct {
	ID          string // atom:id or rss guid
	Title       string
	Link        string
	Description string // summary/description, possibly HTML
	Content     string // content:encoded or atom content, possibly HTML

	Published       string
	PublishedParsed *time.Time
	Updated         string
	UpdatedParsed   *time.Time
	Created         string // dc:date

	MediaContent    []MediaRef
	MediaThumbnails []MediaRef
	Enclosures      []string
}

type MediaRef struct {
	URL  string
	Href string
}

// Sources is the feed list snapshot taken at startup.
type Sources struct {
	Local    []string `yaml:"local"`
	National []string `yaml:"national"`
}

func (s Sources) Count() int {
	return len(s.Local) + len(s.National)
}
