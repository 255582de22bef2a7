package feed

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const faviconTemplate = "https://icons.duckduckgo.com/ip3/%s.ico"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// ResolveImage picks a representative image for an entry. It never touches
// the network: the favicon fallback is only formatted, not checked.
// The empty string means no image.
func ResolveImage(entry Entry, fallbackDomain string) string {
	if u := mediaImage(entry); u != "" {
		return u
	}

	if u := enclosureImage(entry); u != "" {
		return u
	}

	for _, fragment := range []string{entry.Content, entry.Description} {
		if u := firstImgSrc(fragment); u != "" {
			return u
		}
	}

	domain := cmp.Or(strings.TrimSpace(fallbackDomain), Hostname(strings.TrimSpace(entry.Link)))
	if domain != "" {
		return fmt.Sprintf(faviconTemplate, domain)
	}

	return ""
}

func mediaImage(entry Entry) string {
	for _, refs := range [][]MediaRef{entry.MediaContent, entry.MediaThumbnails} {
		if len(refs) == 0 {
			continue
		}
		if u := cmp.Or(refs[0].URL, refs[0].Href); u != "" {
			return u
		}
	}
	return ""
}

func enclosureImage(entry Entry) string {
	for _, u := range entry.Enclosures {
		lower := strings.ToLower(u)
		for _, ext := range imageExtensions {
			if strings.HasSuffix(lower, ext) {
				return u
			}
		}
	}
	return ""
}

func firstImgSrc(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
