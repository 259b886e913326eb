package seo

import (
	"net/url"
	"strings"
	"time"
)

// Heading is one h1..h6 element in document order.
type Heading struct {
	Level int
	Text  string
}

// Image is one img element with the attributes checks care about.
type Image struct {
	Src     string
	Alt     string
	Loading string
	Width   string
	Height  string
}

// Link is one anchor with its resolved target.
type Link struct {
	Href     string
	Text     string
	Rel      string
	Internal bool
}

// Document is the normalized extraction of one fetched page. It is
// built once by the fetcher, owned by a single analysis run and never
// mutated afterwards.
type Document struct {
	RequestedURL string
	FinalURL     *url.URL
	StatusCode   int
	ContentType  string
	BodySize     int
	FetchTime    time.Duration

	Lang      string
	Title     string
	Meta      map[string]string // meta name/property -> content, first wins
	Charset   bool
	Favicon   bool
	Canonical string

	Headings []Heading
	Images   []Image
	Links    []Link

	Text      string
	WordCount int

	StructuredData []string // raw ld+json blocks
	ScriptHosts    []string // hosts of external scripts, for analytics detection
	HasViewport    bool
	InlineStyles   int
	FormCount      int
	TableCount     int
	IframeCount    int
	ListCount      int
}

// MetaContent returns the first meta value registered under any of the
// given names.
func (d *Document) MetaContent(names ...string) string {
	for _, n := range names {
		if v, ok := d.Meta[n]; ok {
			return v
		}
	}
	return ""
}

// HeadingCount returns how many headings of the given level exist.
func (d *Document) HeadingCount(level int) int {
	n := 0
	for _, h := range d.Headings {
		if h.Level == level {
			n++
		}
	}
	return n
}

// InternalLinks returns the number of links pointing at the page's own
// host.
func (d *Document) InternalLinks() int {
	n := 0
	for _, l := range d.Links {
		if l.Internal {
			n++
		}
	}
	return n
}

// ExternalLinks returns the number of links pointing off-host.
func (d *Document) ExternalLinks() int {
	n := 0
	for _, l := range d.Links {
		if !l.Internal {
			n++
		}
	}
	return n
}

// HasScriptHost reports whether any external script is served from a
// host containing the given fragment.
func (d *Document) HasScriptHost(fragment string) bool {
	for _, h := range d.ScriptHosts {
		if strings.Contains(h, fragment) {
			return true
		}
	}
	return false
}

// IsHTTPS reports whether the final URL, after redirects, is https.
func (d *Document) IsHTTPS() bool {
	return d.FinalURL != nil && d.FinalURL.Scheme == "https"
}
