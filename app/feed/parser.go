package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title: feed.Title,
		Link:  feed.Link,
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.toEntry(item))
	}

	return metadata, entries, nil
}

func (p *Parser) toEntry(item *gofeed.Item) Entry {
	entry := Entry{
		ID:              item.GUID,
		Title:           item.Title,
		Link:            item.Link,
		Description:     item.Description,
		Content:         item.Content,
		Published:       item.Published,
		PublishedParsed: item.PublishedParsed,
		Updated:         item.Updated,
		UpdatedParsed:   item.UpdatedParsed,
	}

	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Date) > 0 {
		entry.Created = item.DublinCoreExt.Date[0]
	}

	if media, ok := item.Extensions["media"]; ok {
		entry.MediaContent = mediaRefs(media, "content")
		entry.MediaThumbnails = mediaRefs(media, "thumbnail")
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.TrimSpace(enclosure.URL) != "" {
			entry.Enclosures = append(entry.Enclosures, strings.TrimSpace(enclosure.URL))
		}
	}

	return entry
}

// mediaRefs collects media:<name> elements, direct ones first and then those
// nested in media:group.
func mediaRefs(media map[string][]ext.Extension, name string) []MediaRef {
	var refs []MediaRef

	appendRefs := func(elements []ext.Extension) {
		for _, el := range elements {
			refs = append(refs, MediaRef{
				URL:  strings.TrimSpace(el.Attrs["url"]),
				Href: strings.TrimSpace(el.Attrs["href"]),
			})
		}
	}

	appendRefs(media[name])
	for _, group := range media["group"] {
		appendRefs(group.Children[name])
	}

	return refs
}
