package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagepulse/seo-audit/internal/seo"
)

// Normalize parses HTML permissively and extracts the document model.
// Malformed markup degrades to partial extraction instead of failing.
func Normalize(requestedURL, finalURL string, status int, contentType string, body []byte) (*seo.Document, error) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	final, err := url.Parse(finalURL)
	if err != nil || final.Host == "" {
		final, err = url.Parse(requestedURL)
		if err != nil {
			return nil, fmt.Errorf("parse final url: %w", err)
		}
	}

	doc := &seo.Document{
		RequestedURL: requestedURL,
		FinalURL:     final,
		StatusCode:   status,
		ContentType:  contentType,
		BodySize:     len(body),
		Meta:         map[string]string{},
	}

	doc.Lang, _ = gq.Find("html").First().Attr("lang")
	doc.Title = strings.TrimSpace(gq.Find("title").First().Text())

	gq.Find("meta").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("charset"); ok {
			doc.Charset = true
		}
		content, _ := s.Attr("content")
		if name, ok := s.Attr("name"); ok {
			registerMeta(doc, name, content)
		}
		if prop, ok := s.Attr("property"); ok {
			registerMeta(doc, prop, content)
		}
		if equiv, ok := s.Attr("http-equiv"); ok && strings.EqualFold(equiv, "content-type") {
			doc.Charset = true
		}
	})
	doc.HasViewport = strings.Contains(strings.ToLower(doc.MetaContent("viewport")), "width=device-width")

	gq.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		href, _ := s.Attr("href")
		switch strings.ToLower(strings.TrimSpace(rel)) {
		case "canonical":
			doc.Canonical = strings.TrimSpace(href)
		case "icon", "shortcut icon", "apple-touch-icon":
			doc.Favicon = true
		}
	})

	for level := 1; level <= 6; level++ {
		tag := "h" + strconv.Itoa(level)
		gq.Find(tag).Each(func(_ int, s *goquery.Selection) {
			doc.Headings = append(doc.Headings, seo.Heading{
				Level: level,
				Text:  strings.TrimSpace(s.Text()),
			})
		})
	}

	gq.Find("img").Each(func(_ int, s *goquery.Selection) {
		img := seo.Image{}
		img.Src, _ = s.Attr("src")
		img.Alt, _ = s.Attr("alt")
		img.Loading, _ = s.Attr("loading")
		img.Width, _ = s.Attr("width")
		img.Height, _ = s.Attr("height")
		doc.Images = append(doc.Images, img)
	})

	gq.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		target, err := final.Parse(href)
		if err != nil {
			return
		}
		rel, _ := s.Attr("rel")
		doc.Links = append(doc.Links, seo.Link{
			Href:     target.String(),
			Text:     strings.TrimSpace(s.Text()),
			Rel:      rel,
			Internal: strings.EqualFold(target.Hostname(), final.Hostname()),
		})
	})

	gq.Find("script").Each(func(_ int, s *goquery.Selection) {
		if t, _ := s.Attr("type"); strings.EqualFold(t, "application/ld+json") {
			doc.StructuredData = append(doc.StructuredData, strings.TrimSpace(s.Text()))
			return
		}
		if src, ok := s.Attr("src"); ok {
			if u, err := final.Parse(src); err == nil && u.Hostname() != "" {
				doc.ScriptHosts = append(doc.ScriptHosts, strings.ToLower(u.Hostname()))
			}
		}
	})

	doc.InlineStyles = gq.Find("[style]").Length()
	doc.FormCount = gq.Find("form").Length()
	doc.TableCount = gq.Find("table").Length()
	doc.IframeCount = gq.Find("iframe").Length()
	doc.ListCount = gq.Find("ul, ol").Length()

	visible := gq.Find("body").Clone()
	visible.Find("script, style, noscript").Remove()
	doc.Text = strings.Join(strings.Fields(visible.Text()), " ")
	doc.WordCount = len(strings.Fields(doc.Text))

	return doc, nil
}

// registerMeta keeps the first value seen for a meta key, matching how
// crawlers treat duplicated tags.
func registerMeta(doc *seo.Document, key, content string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}
	if _, ok := doc.Meta[key]; !ok {
		doc.Meta[key] = content
	}
}
