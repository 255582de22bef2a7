package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/lysyi3m/samsun-news/app/database"
)

// Channel describes the RSS channel wrapped around stored articles.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Generator   string
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders articles, newest first, as an RSS 2.0 document.
func (g *Generator) Run(channel Channel, articles []database.Article) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", channel.Description, 4)

	if channel.SelfLink != "" {
		fmt.Fprintf(&buf, "    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink))
	}

	lastBuildDate := time.Now().UTC()
	if len(articles) > 0 {
		lastBuildDate = articles[0].SortKey()
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)

	for _, article := range articles {
		g.writeItem(&buf, article)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, article database.Article) {
	buf.WriteString("    <item>\n")

	fmt.Fprintf(buf, "      <guid isPermaLink=\"%t\">", article.GUID == article.URL && g.isURL(article.GUID))
	xml.EscapeText(buf, []byte(article.GUID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", article.Title, 6)
	g.writeElement(buf, "link", article.URL, 6)
	g.writeElement(buf, "description", article.Summary, 6)
	if site := siteURL(article.URL); site != "" && article.Source != "" {
		fmt.Fprintf(buf, "      <source url=\"%s\">", html.EscapeString(site))
		xml.EscapeText(buf, []byte(article.Source))
		buf.WriteString("</source>\n")
	}
	g.writeElement(buf, "category", string(article.Category), 6)

	if article.Published != nil {
		g.writeElement(buf, "pubDate", article.Published.Format(time.RFC1123Z), 6)
	}

	if article.ImageURL != nil {
		if mimeType := imageType(*article.ImageURL); mimeType != "" {
			fmt.Fprintf(buf, "      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
				html.EscapeString(*article.ImageURL),
				html.EscapeString(mimeType))
		}
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	buf.WriteString(strings.Repeat(" ", indent))
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// siteURL is the scheme and host of an article link.
func siteURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}

// imageType guesses the enclosure type from the URL path. Unknown types
// yield "" and no enclosure is written.
func imageType(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".ico":
		return "image/x-icon"
	case ".webp":
		return "image/webp"
	}

	mimeType := mime.TypeByExtension(ext)
	if !strings.HasPrefix(mimeType, "image/") {
		return ""
	}
	return mimeType
}
