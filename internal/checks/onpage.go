package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func onPageChecks() []Check {
	return []Check{
		{Factor: "Title Length", Run: checkTitleLength},
		{Factor: "Meta Description", Run: checkMetaDescription},
		{Factor: "H1 Heading", Run: checkH1},
		{Factor: "Image Alt Text", Run: checkImageAlt},
		{Factor: "Favicon", Run: checkFavicon},
		{Factor: "Keyword in Headings", Run: checkKeywordInHeadings},
		{Factor: "Link Anchor Text", Run: checkAnchorText},
		{Factor: "URL Readability", Run: checkURLReadability},
	}
}

func checkTitleLength(doc *seo.Document, _ Options) seo.CheckResult {
	length := utf8.RuneCountInString(doc.Title)
	switch {
	case length == 0:
		return seo.CheckResult{Status: seo.StatusCritical, Description: "Page is missing a title tag"}
	case length >= 30 && length <= 60:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("Title length is %d characters", length)}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Title is %d characters (30-60 recommended)", length)}
	}
}

func checkMetaDescription(doc *seo.Document, _ Options) seo.CheckResult {
	desc := doc.MetaContent("description")
	length := utf8.RuneCountInString(desc)
	switch {
	case length == 0:
		return seo.CheckResult{Status: seo.StatusCritical, Description: "Page is missing a meta description"}
	case length >= 120 && length <= 160:
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Meta description length is %d characters", length)}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Meta description is %d characters (120-160 recommended)", length)}
	}
}

func checkH1(doc *seo.Document, _ Options) seo.CheckResult {
	switch n := doc.HeadingCount(1); {
	case n == 1:
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "Exactly one H1 heading"}
	case n == 0:
		return seo.CheckResult{Status: seo.StatusCritical, Description: "Page has no H1 heading"}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("%d H1 headings found, use only one", n)}
	}
}

func checkImageAlt(doc *seo.Document, _ Options) seo.CheckResult {
	if len(doc.Images) == 0 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No images on the page"}
	}
	withAlt := 0
	for _, img := range doc.Images {
		if strings.TrimSpace(img.Alt) != "" {
			withAlt++
		}
	}
	ratio := float64(withAlt) / float64(len(doc.Images))
	return seo.CheckResult{
		Status:      scaled(ratio),
		Description: fmt.Sprintf("%d of %d images have alt text", withAlt, len(doc.Images)),
	}
}

func checkFavicon(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.Favicon {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Favicon is declared"}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "No favicon link found"}
}

func checkKeywordInHeadings(doc *seo.Document, opts Options) seo.CheckResult {
	kw := strings.ToLower(strings.TrimSpace(opts.TargetKeyword))
	if kw == "" {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No target keyword supplied"}
	}
	for _, h := range doc.Headings {
		if strings.Contains(strings.ToLower(h.Text), kw) {
			return seo.CheckResult{Status: seo.StatusGood,
				Description: fmt.Sprintf("Target keyword appears in an H%d heading", h.Level)}
		}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "Target keyword missing from all headings"}
}

func checkAnchorText(doc *seo.Document, _ Options) seo.CheckResult {
	if len(doc.Links) == 0 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No links on the page"}
	}
	descriptive := 0
	for _, l := range doc.Links {
		text := strings.ToLower(strings.TrimSpace(l.Text))
		if text != "" && text != "click here" && text != "here" && text != "read more" {
			descriptive++
		}
	}
	ratio := float64(descriptive) / float64(len(doc.Links))
	return seo.CheckResult{
		Status:      scaled(ratio),
		Description: fmt.Sprintf("%d of %d links use descriptive anchor text", descriptive, len(doc.Links)),
	}
}

func checkURLReadability(doc *seo.Document, _ Options) seo.CheckResult {
	path := doc.FinalURL.Path
	if path == "" || path == "/" {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Root URL"}
	}
	lower := strings.ToLower(path)
	switch {
	case strings.ContainsAny(path, "%_ ") || lower != path:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: "URL path contains uppercase, spaces or encoded characters"}
	case len(path) > 100:
		return seo.CheckResult{Status: seo.StatusWarning, Description: "URL path is very long"}
	default:
		return seo.CheckResult{Status: seo.StatusGood, Description: "URL path is clean and readable"}
	}
}
