package checks

import (
	"fmt"
	"strings"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func technicalChecks() []Check {
	return []Check{
		{Factor: "HTTPS", Run: checkHTTPS},
		{Factor: "Response Status", Run: checkResponseStatus},
		{Factor: "Canonical URL", Run: checkCanonical},
		{Factor: "Robots Directives", Run: checkRobotsMeta},
		{Factor: "Character Encoding", Run: checkCharset},
		{Factor: "Language Declaration", Run: checkLang},
		{Factor: "Structured Data", Run: checkStructuredData},
		{Factor: "Page Weight", Run: checkPageWeight},
		{Factor: "Server Response Time", Run: checkResponseTime},
	}
}

func checkHTTPS(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.IsHTTPS() {
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "Page is served over HTTPS"}
	}
	return seo.CheckResult{Status: seo.StatusCritical, Description: "Page is not served over HTTPS"}
}

func checkResponseStatus(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.StatusCode >= 200 && doc.StatusCode < 300 {
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("Server answered with status %d", doc.StatusCode)}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: fmt.Sprintf("Unexpected terminal status %d", doc.StatusCode)}
}

func checkCanonical(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.Canonical == "" {
		return seo.CheckResult{Status: seo.StatusWarning, Description: "No canonical URL declared"}
	}
	if !strings.HasPrefix(doc.Canonical, "http") {
		return seo.CheckResult{Status: seo.StatusFair,
			Description: "Canonical URL should be absolute"}
	}
	return seo.CheckResult{Status: seo.StatusExcellent, Description: "Canonical URL is declared"}
}

func checkRobotsMeta(doc *seo.Document, _ Options) seo.CheckResult {
	robots := strings.ToLower(doc.MetaContent("robots"))
	if strings.Contains(robots, "noindex") {
		return seo.CheckResult{Status: seo.StatusCritical,
			Description: "robots meta tag blocks indexing (noindex)"}
	}
	if strings.Contains(robots, "nofollow") {
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: "robots meta tag blocks link following (nofollow)"}
	}
	return seo.CheckResult{Status: seo.StatusExcellent, Description: "Page is indexable"}
}

func checkCharset(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.Charset {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Character encoding is declared"}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "No charset declaration found"}
}

func checkLang(doc *seo.Document, _ Options) seo.CheckResult {
	if strings.TrimSpace(doc.Lang) != "" {
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Document language is %q", doc.Lang)}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "html element is missing a lang attribute"}
}

func checkStructuredData(doc *seo.Document, _ Options) seo.CheckResult {
	if len(doc.StructuredData) > 0 {
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("%d structured data block(s) found", len(doc.StructuredData))}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "No JSON-LD structured data found"}
}

func checkPageWeight(doc *seo.Document, _ Options) seo.CheckResult {
	kb := float64(doc.BodySize) / 1024.0
	res := seo.CheckResult{Description: fmt.Sprintf("HTML payload is %.0f KB", kb)}
	switch {
	case kb > 2048:
		res.Status = seo.StatusCritical
		res.Description = fmt.Sprintf("HTML payload is very large (%.0f KB)", kb)
	case kb > 1024:
		res.Status = seo.StatusWarning
	case kb > 500:
		res.Status = seo.StatusFair
	default:
		res.Status = seo.StatusExcellent
	}
	return res
}

func checkResponseTime(doc *seo.Document, _ Options) seo.CheckResult {
	ms := doc.FetchTime.Milliseconds()
	res := seo.CheckResult{Description: fmt.Sprintf("Page downloaded in %d ms", ms)}
	switch {
	case ms > 3000:
		res.Status = seo.StatusCritical
		res.Description = fmt.Sprintf("Slow server response (%d ms)", ms)
	case ms > 1500:
		res.Status = seo.StatusWarning
	case ms > 800:
		res.Status = seo.StatusGood
	default:
		res.Status = seo.StatusExcellent
	}
	return res
}
