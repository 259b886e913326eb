package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func socialChecks() []Check {
	return []Check{
		{Factor: "Open Graph Title", Run: checkOGTitle},
		{Factor: "Open Graph Description", Run: checkOGDescription},
		{Factor: "Open Graph Image", Run: checkOGImage},
		{Factor: "Twitter Card", Run: checkTwitterCard},
		{Factor: "Open Graph Completeness", Run: checkOGCompleteness},
		{Factor: "Shareable Title", Run: checkShareableTitle},
	}
}

func checkOGTitle(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.MetaContent("og:title") != "" {
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "og:title is set"}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "Missing og:title for social previews"}
}

func checkOGDescription(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.MetaContent("og:description") != "" {
		return seo.CheckResult{Status: seo.StatusGood, Description: "og:description is set"}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "Missing og:description for social previews"}
}

func checkOGImage(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.MetaContent("og:image") != "" {
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "og:image is set"}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: "Missing og:image, shares will render without a preview picture"}
}

func checkTwitterCard(doc *seo.Document, _ Options) seo.CheckResult {
	card := doc.MetaContent("twitter:card")
	if card == "" {
		return seo.CheckResult{Status: seo.StatusWarning, Description: "Missing twitter:card meta tag"}
	}
	return seo.CheckResult{Status: seo.StatusGood,
		Description: fmt.Sprintf("Twitter card type %q declared", card)}
}

func checkOGCompleteness(doc *seo.Document, _ Options) seo.CheckResult {
	required := []string{"og:title", "og:description", "og:image", "og:url", "og:type"}
	present := 0
	for _, key := range required {
		if doc.MetaContent(key) != "" {
			present++
		}
	}
	return seo.CheckResult{
		Status:      scaled(float64(present) / float64(len(required))),
		Description: fmt.Sprintf("%d of %d core Open Graph tags present", present, len(required)),
	}
}

func checkShareableTitle(doc *seo.Document, _ Options) seo.CheckResult {
	title := doc.MetaContent("og:title")
	if title == "" {
		title = doc.Title
	}
	switch length := utf8.RuneCountInString(strings.TrimSpace(title)); {
	case length == 0:
		return seo.CheckResult{Status: seo.StatusCritical, Description: "Nothing to show in a social share title"}
	case length <= 70:
		return seo.CheckResult{Status: seo.StatusGood, Description: "Share title fits common social previews"}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Share title is %d characters and will be truncated", length)}
	}
}
