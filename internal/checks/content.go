package checks

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagepulse/seo-audit/internal/seo"
)

func contentQualityChecks() []Check {
	return []Check{
		{Factor: "Word Count", Run: checkWordCount},
		{Factor: "Keyword Usage", Run: checkKeywordUsage},
		{Factor: "Keyword in Title", Run: checkKeywordInTitle},
		{Factor: "Readability", Run: checkReadability},
		{Factor: "Content Freshness", Run: checkFreshness},
		{Factor: "Vocabulary Depth", Run: checkVocabularyDepth},
		{Factor: "Author Attribution", Run: checkAuthorship},
		{Factor: "Media Richness", Run: checkMediaRichness},
	}
}

func checkWordCount(doc *seo.Document, _ Options) seo.CheckResult {
	wc := doc.WordCount
	res := seo.CheckResult{Description: fmt.Sprintf("Page contains %d words", wc)}
	switch {
	case wc >= 900:
		res.Status = seo.StatusExcellent
	case wc >= 600:
		res.Status = seo.StatusGood
	case wc >= 300:
		res.Status = seo.StatusFair
	case wc >= 100:
		res.Status = seo.StatusWarning
		res.Description = fmt.Sprintf("Thin content: only %d words (aim for at least 300)", wc)
	default:
		res.Status = seo.StatusCritical
		res.Description = fmt.Sprintf("Almost no indexable text found (%d words)", wc)
	}
	return res
}

func checkKeywordUsage(doc *seo.Document, opts Options) seo.CheckResult {
	kw := strings.ToLower(strings.TrimSpace(opts.TargetKeyword))
	if kw == "" {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No target keyword supplied"}
	}
	if doc.WordCount == 0 {
		return seo.CheckResult{Status: seo.StatusCritical, Description: "No text to search for the target keyword"}
	}
	occurrences := strings.Count(strings.ToLower(doc.Text), kw)
	density := float64(occurrences*len(strings.Fields(kw))) / float64(doc.WordCount) * 100
	switch {
	case occurrences == 0:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Target keyword %q does not appear in the body text", opts.TargetKeyword)}
	case density > 3.5:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Keyword density %.1f%% looks like stuffing", density)}
	case density >= 0.5:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("Keyword appears %d times (%.1f%% density)", occurrences, density)}
	default:
		return seo.CheckResult{Status: seo.StatusFair,
			Description: fmt.Sprintf("Keyword appears %d times; consider using it more prominently", occurrences)}
	}
}

func checkKeywordInTitle(doc *seo.Document, opts Options) seo.CheckResult {
	kw := strings.ToLower(strings.TrimSpace(opts.TargetKeyword))
	if kw == "" {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No target keyword supplied"}
	}
	if strings.Contains(strings.ToLower(doc.Title), kw) {
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "Target keyword appears in the title tag"}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "Title tag does not mention the target keyword"}
}

func checkReadability(doc *seo.Document, _ Options) seo.CheckResult {
	sentences := 0
	for _, r := range doc.Text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 || doc.WordCount == 0 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Not enough text to estimate readability"}
	}
	avg := float64(doc.WordCount) / float64(sentences)
	switch {
	case avg <= 20:
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("Average sentence length is %.0f words", avg)}
	case avg <= 28:
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Average sentence length is %.0f words", avg)}
	default:
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Sentences average %.0f words; shorter sentences read better", avg)}
	}
}

func checkFreshness(doc *seo.Document, opts Options) seo.CheckResult {
	stamp := doc.MetaContent("article:modified_time", "article:published_time", "date", "last-modified")
	if stamp == "" {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "No publication or modification date declared"}
	}
	published, err := parseMetaTime(stamp)
	if err != nil {
		return seo.CheckResult{Status: seo.StatusWarning,
			Description: fmt.Sprintf("Declared date %q could not be parsed", stamp)}
	}
	age := opts.Now.Sub(published)
	switch {
	case age < 0:
		return seo.CheckResult{Status: seo.StatusWarning, Description: "Declared date is in the future"}
	case age <= 180*24*time.Hour:
		return seo.CheckResult{Status: seo.StatusExcellent, Description: "Content was updated within the last six months"}
	case age <= 365*24*time.Hour:
		return seo.CheckResult{Status: seo.StatusFair, Description: "Content is older than six months"}
	default:
		return seo.CheckResult{Status: seo.StatusWarning, Description: "Content has not been updated in over a year"}
	}
}

func parseMetaTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", value)
}

func checkVocabularyDepth(doc *seo.Document, _ Options) seo.CheckResult {
	words := strings.Fields(strings.ToLower(doc.Text))
	if len(words) < 50 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Not enough text to judge vocabulary"}
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(words))
	if ratio >= 0.35 {
		return seo.CheckResult{Status: seo.StatusGood,
			Description: fmt.Sprintf("Varied vocabulary (%.0f%% unique words)", ratio*100)}
	}
	return seo.CheckResult{Status: seo.StatusWarning,
		Description: fmt.Sprintf("Repetitive wording (%.0f%% unique words)", ratio*100)}
}

func checkAuthorship(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.MetaContent("author", "article:author") != "" {
		return seo.CheckResult{Status: seo.StatusGood, Description: "Author attribution is declared"}
	}
	for _, block := range doc.StructuredData {
		if strings.Contains(block, `"author"`) {
			return seo.CheckResult{Status: seo.StatusGood, Description: "Author declared via structured data"}
		}
	}
	return seo.CheckResult{Status: seo.StatusWarning, Description: "No author attribution found (weak E-A-T signal)"}
}

func checkMediaRichness(doc *seo.Document, _ Options) seo.CheckResult {
	if doc.WordCount < 200 {
		return seo.CheckResult{Status: seo.StatusNeutral, Description: "Page too short to judge media balance"}
	}
	if len(doc.Images) == 0 {
		return seo.CheckResult{Status: seo.StatusWarning, Description: "Long-form text without any supporting images"}
	}
	per1000 := float64(len(doc.Images)) / float64(doc.WordCount) * 1000
	if per1000 >= 1 {
		return seo.CheckResult{Status: seo.StatusExcellent,
			Description: fmt.Sprintf("%d images support the text", len(doc.Images))}
	}
	return seo.CheckResult{Status: seo.StatusFair,
		Description: "Consider adding more visuals to break up the text"}
}
