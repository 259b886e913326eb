package checks

import (
	"fmt"
	"strings"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func userExperienceChecks() []Check {
	return []Check{
		{Factor: "Mobile Viewport", Run: checkViewport},
		{Factor: "Download Speed", Run: checkDownloadSpeed},
		{Factor: "Embedded Frames", Run: checkIframes},
		{Factor: "Inline Styling", Run: checkInlineStyles},
		{Factor: "Image Lazy Loading", Run: checkLazyLoading},
		{Factor: "Image Dimensions", Run: checkImageDimensions},
		{Factor: "Layout Tables", Run: checkLayoutTables},
	}
}

func checkViewport(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.HasViewport {
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "Responsive viewport meta tag is present"}
	}
	return seo.CheckResult{Status: seo.StatusCritical,
		Description: "Missing viewport meta tag, page will not scale on mobile"}
}

func checkDownloadSpeed(doc *seo.Document, _ Options) seo.CheckResult {
	ms := doc.FetchTime.Milliseconds()
	kb := float64(doc.BodySize) / 1024.0
	switch {
	case ms <= 1000 && kb <= 512:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("Fast first document load (%d ms, %.0f KB)", ms, kb)}
	case ms <= 2500:
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Acceptable document load (%d ms)", ms)}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Slow document load (%d ms) hurts perceived performance", ms)}
	}
}

func checkIframes(doc *seo.Document, _ Options) seo.CheckResult {
	switch {
	case doc.IframeCount == 0:
		return seo.CheckResult{Status: seo.StatusGood, Description: "No embedded frames"}
	case doc.IframeCount <= 2:
		return seo.CheckResult{Status: seo.StatusFair,
			Description: fmt.Sprintf("%d iframe(s) found, each adds render cost", doc.IframeCount)}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("%d iframes slow rendering and confuse crawlers", doc.IframeCount)}
	}
}

func checkInlineStyles(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.InlineStyles <= 20 {
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("%d inline style attributes", doc.InlineStyles)}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: fmt.Sprintf("%d inline style attributes bloat the markup", doc.InlineStyles)}
}

func checkLazyLoading(doc *seo.Document, _ Options) seo.CheckResult {
	if len(doc.Images) < 5 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Too few images for lazy loading to matter"}
	}
	lazy := 0
	for _, img := range doc.Images {
		if strings.EqualFold(img.Loading, "lazy") {
			lazy++
		}
	}
	if lazy == 0 {
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("None of %d images use loading=\"lazy\"", len(doc.Images))}
	}
	return seo.CheckResult{
		Status:      scaled(float64(lazy) / float64(len(doc.Images))),
		Description: fmt.Sprintf("%d of %d images load lazily", lazy, len(doc.Images)),
	}
}

func checkImageDimensions(doc *seo.Document, _ Options) seo.CheckResult {
	if len(doc.Images) == 0 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No images on the page"}
	}
	sized := 0
	for _, img := range doc.Images {
		if img.Width != "" && img.Height != "" {
			sized++
		}
	}
	return seo.CheckResult{
		Status:      scaled(float64(sized) / float64(len(doc.Images))),
		Description: fmt.Sprintf("%d of %d images declare width and height (prevents layout shift)", sized, len(doc.Images)),
	}
}

func checkLayoutTables(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.TableCount <= 3 {
		return seo.CheckResult{Status: seo.StatusGood, Description: "No excessive table markup"}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: fmt.Sprintf("%d tables found; table-based layout hurts mobile rendering", doc.TableCount)}
}
