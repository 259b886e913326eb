package checks

import (
	"strings"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func analyticsChecks() []Check {
	return []Check{
		{Factor: "Analytics Tag", Run: checkAnalyticsTag},
		{Factor: "Tag Manager", Run: checkTagManager},
		{Factor: "Site Verification", Run: checkSiteVerification},
		{Factor: "Conversion Pixels", Run: checkConversionPixels},
		{Factor: "Generator Exposure", Run: checkGeneratorMeta},
	}
}

var analyticsHosts = []string{
	"google-analytics.com",
	"googletagmanager.com",
	"plausible.io",
	"matomo",
	"segment.com",
	"umami",
}

func checkAnalyticsTag(doc *seo.Document, _ Options) seo.CheckResult {
	for _, host := range analyticsHosts {
		if doc.HasScriptHost(host) {
			return seo.CheckResult{Status: seo.StatusExcellent,
				Description: "Analytics instrumentation detected (" + host + ")"}
		}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: "No analytics instrumentation detected"}
}

func checkTagManager(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.HasScriptHost("googletagmanager.com") {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Tag manager container present"}
	}
	return seo.CheckResult{Status: seo.StatusNeutral, Description: "No tag manager container"}
}

func checkSiteVerification(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.MetaContent("google-site-verification", "msvalidate.01", "yandex-verification") != "" {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Search engine site verification tag present"}
	}
	return seo.CheckResult{Status: seo.StatusNeutral, Description: "No site verification meta tag"}
}

func checkConversionPixels(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.HasScriptHost("connect.facebook.net") || doc.HasScriptHost("ads-twitter.com") ||
		doc.HasScriptHost("snap.licdn.com") {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Conversion tracking pixel detected"}
	}
	return seo.CheckResult{Status: seo.StatusNeutral, Description: "No conversion tracking pixels"}
}

func checkGeneratorMeta(doc *seo.Document, _ Options) seo.CheckResult {
	generator := doc.MetaContent("generator")
	if generator == "" {
		return seo.CheckResult{Status: seo.StatusGood, Description: "No CMS version exposed"}
	}
	if strings.ContainsAny(generator, "0123456789") {
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: "Generator meta tag exposes a software version"}
	}
	return seo.CheckResult{Status: seo.StatusNeutral, Description: "Generator meta tag present"}
}
