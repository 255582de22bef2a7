package feed

import (
	"encoding/xml"
	"log/slog"
	"os"
)

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Body    opmlBody `xml:"body"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	XMLURL   string        `xml:"xmlUrl,attr"`
	Outlines []opmlOutline `xml:"outline"`
}

// LoadOPML returns the xmlUrl of every outline, at any depth. A missing or
// malformed file yields an empty list.
func LoadOPML(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Failed to read OPML file, no national feeds configured", "path", path, "error", err)
		return nil
	}

	urls, err := ParseOPML(data)
	if err != nil {
		slog.Warn("Failed to parse OPML file, no national feeds configured", "path", path, "error", err)
		return nil
	}

	slog.Info("National sources loaded", "path", path, "count", len(urls))
	return urls
}

func ParseOPML(data []byte) ([]string, error) {
	var doc opmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var urls []string
	var walk func(outlines []opmlOutline)
	walk = func(outlines []opmlOutline) {
		for _, o := range outlines {
			if o.XMLURL != "" {
				urls = append(urls, o.XMLURL)
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body.Outlines)

	return cleanURLs(urls), nil
}
