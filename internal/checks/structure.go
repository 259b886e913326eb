package checks

import (
	"fmt"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func structureChecks() []Check {
	return []Check{
		{Factor: "Heading Hierarchy", Run: checkHeadingHierarchy},
		{Factor: "Section Headings", Run: checkSectionHeadings},
		{Factor: "List Usage", Run: checkLists},
		{Factor: "Text Density", Run: checkTextDensity},
		{Factor: "Section Length", Run: checkSectionLength},
		{Factor: "Internal Linking", Run: checkInternalLinks},
		{Factor: "External References", Run: checkExternalLinks},
	}
}

func checkHeadingHierarchy(doc *seo.Document, _ Options) seo.CheckResult {
	if len(doc.Headings) == 0 {
		return seo.CheckResult{Status: seo.StatusWarning, Description: "Page has no headings at all"}
	}
	// A jump such as h2 -> h4 without an h3 breaks the outline.
	seen := map[int]bool{}
	for _, h := range doc.Headings {
		seen[h.Level] = true
	}
	for level := 2; level <= 6; level++ {
		if seen[level] && !seen[level-1] {
			return seo.CheckResult{Status: seo.StatusWarning,
				Description: fmt.Sprintf("H%d is used without an H%d above it", level, level-1)}
		}
	}
	return seo.CheckResult{Status: seo.StatusExcellent, Description: "Heading levels form a clean outline"}
}

func checkSectionHeadings(doc *seo.Document, _ Options) seo.CheckResult {
	h2 := doc.HeadingCount(2)
	switch {
	case h2 >= 2:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("%d H2 section headings", h2)}
	case h2 == 1:
		return seo.CheckResult{Status: seo.StatusGood, Description: "One H2 section heading"}
	default:
		return seo.CheckResult{Status: seo.StatusWarning, Description: "No H2 headings to break up the content"}
	}
}

func checkLists(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.ListCount > 0 {
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("%d list(s) aid scannability", doc.ListCount)}
	}
	return seo.CheckResult{Status: seo.StatusFair, Description: "No lists found; lists improve scannability"}
}

func checkTextDensity(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.BodySize == 0 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Empty response body"}
	}
	ratio := float64(len(doc.Text)) / float64(doc.BodySize)
	switch {
	case ratio >= 0.15:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("Healthy text-to-markup ratio (%.0f%%)", ratio*100)}
	case ratio >= 0.05:
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Text-to-markup ratio is %.0f%%", ratio*100)}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Markup-heavy page (%.0f%% visible text)", ratio*100)}
	}
}

func checkSectionLength(doc *seo.Document, _ Options) seo.CheckResult {
	headings := len(doc.Headings)
	if headings == 0 || doc.WordCount < 200 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Too little structure to judge section length"}
	}
	wordsPerSection := doc.WordCount / headings
	if wordsPerSection <= 350 {
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Sections average %d words", wordsPerSection)}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: fmt.Sprintf("Sections average %d words; add headings to long passages", wordsPerSection)}
}

func checkInternalLinks(doc *seo.Document, _ Options) seo.CheckResult {
	n := doc.InternalLinks()
	switch {
	case n >= 5:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("%d internal links", n)}
	case n >= 3:
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("%d internal links (aim for 5+)", n)}
	case n >= 1:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Only %d internal link(s)", n)}
	default:
		return seo.CheckResult{Status: seo.StatusPoor, Description: "No internal links at all"}
	}
}

func checkExternalLinks(doc *seo.Document, _ Options) seo.CheckResult {
	n := doc.ExternalLinks()
	switch {
	case n == 0:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: "No external references to authoritative sources"}
	case n > 50:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("%d external links dilute focus", n)}
	default:
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("%d external reference(s)", n)}
	}
}
