package checks

import (
	"strings"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func localChecks() []Check {
	return []Check{
		{Factor: "Business Structured Data", Run: checkBusinessSchema},
		{Factor: "Geo Metadata", Run: checkGeoMeta},
		{Factor: "Contact Phone", Run: checkPhoneLink},
		{Factor: "Contact Page", Run: checkContactLink},
		{Factor: "Regional Targeting", Run: checkHreflangOrLang},
	}
}

func checkBusinessSchema(doc *seo.Document, _ Options) seo.CheckResult {
	for _, block := range doc.StructuredData {
		if strings.Contains(block, "LocalBusiness") || strings.Contains(block, "Organization") {
			return seo.CheckResult{Status: seo.StatusExcellent,
				Description: "Organization or LocalBusiness structured data found"}
		}
	}
	return seo.CheckResult{Status: seo.StatusNeutral,
		Description: "No business structured data (only relevant for local businesses)"}
}

func checkGeoMeta(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.MetaContent("geo.region", "geo.position", "geo.placename", "icbm") != "" {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Geographic meta tags present"}
	}
	return seo.CheckResult{Status: seo.StatusNeutral, Description: "No geographic meta tags"}
}

func checkPhoneLink(doc *seo.Document, _ Options) seo.CheckResult {
	for _, block := range doc.StructuredData {
		if strings.Contains(block, `"telephone"`) {
			return seo.CheckResult{Status: seo.StatusGood, Description: "Telephone declared in structured data"}
		}
	}
	for _, l := range doc.Links {
		if strings.HasPrefix(strings.ToLower(l.Href), "tel:") {
			return seo.CheckResult{Status: seo.StatusGood, Description: "Click-to-call phone link present"}
		}
	}
	if strings.Contains(strings.ToLower(doc.Text), "phone") {
		return seo.CheckResult{Status: seo.StatusFair, Description: "Phone number mentioned but not marked up"}
	}
	return seo.CheckResult{Status: seo.StatusNeutral, Description: "No phone contact found"}
}

func checkContactLink(doc *seo.Document, _ Options) seo.CheckResult {
	for _, l := range doc.Links {
		if !l.Internal {
			continue
		}
		href := strings.ToLower(l.Href)
		text := strings.ToLower(l.Text)
		if strings.Contains(href, "contact") || strings.Contains(text, "contact") {
			return seo.CheckResult{Status: seo.StatusGood, Description: "Contact page is linked"}
		}
	}
	return seo.CheckResult{Status: seo.StatusFair, Description: "No contact page link found"}
}

func checkHreflangOrLang(doc *seo.Document, _ Options) seo.CheckResult {
	if strings.TrimSpace(doc.Lang) != "" {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Language declared for regional targeting"}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "No language or regional targeting signals"}
}
