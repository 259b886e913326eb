// Package scoring turns check outcomes into bounded category scores
// and composes the overall report figures.
package scoring

import (
	"math"

	"github.com/pagepulse/seo-audit/internal/seo"
)

// Aggregate converts one category's check results into a CategoryResult.
// MaxScore depends only on the number of checks, so the same registry
// yields the same MaxScore for every document.
func Aggregate(checks []seo.CheckResult) seo.CategoryResult {
	total := 0.0
	for _, c := range checks {
		total += c.Status.Weight()
	}
	score := int(math.Round(total))
	maxScore := int(seo.FullWeight) * len(checks)
	if score > maxScore {
		score = maxScore
	}
	return seo.CategoryResult{
		Score:    score,
		MaxScore: maxScore,
		Checks:   checks,
	}
}

// Overall computes the 0-100 overall score as the mean of category
// ratios across all categories, in declaration order.
func Overall(categories map[seo.Category]seo.CategoryResult) int {
	if len(categories) == 0 {
		return 0
	}
	sum := 0.0
	for _, cat := range seo.Categories {
		if result, ok := categories[cat]; ok {
			sum += result.Ratio()
		}
	}
	return int(math.Round(sum / float64(len(categories)) * 100))
}

// Summarize picks the weakest category as the top priority and the
// strongest as the standout. Ties resolve to the earliest declared
// category so the summary is stable across runs.
func Summarize(categories map[seo.Category]seo.CategoryResult) seo.Summary {
	var summary seo.Summary
	worst := math.Inf(1)
	best := math.Inf(-1)
	for _, cat := range seo.Categories {
		result, ok := categories[cat]
		if !ok {
			continue
		}
		ratio := result.Ratio()
		if ratio < worst {
			worst = ratio
			summary.TopPriority = cat
		}
		if ratio > best {
			best = ratio
			summary.Strength = cat
		}
	}
	return summary
}
