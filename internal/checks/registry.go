// Package checks holds the fixed catalogue of on-page audit rules.
// Every check is a pure function over the normalized document; a
// failure inside one check never reaches its siblings.
package checks

import (
	"fmt"
	"time"

	"github.com/pagepulse/seo-audit/internal/seo"
)

// Options carries per-run inputs shared by all checks. Now is injected
// so freshness rules stay deterministic under test.
type Options struct {
	TargetKeyword string
	Now           time.Time
}

// Func evaluates one rule against a document.
type Func func(doc *seo.Document, opts Options) seo.CheckResult

// Check pairs a stable factor name with its rule function.
type Check struct {
	Factor string
	Run    Func
}

// Registry is the ordered catalogue of checks grouped by category.
// Registration happens once at construction; the per-category counts
// fix each category's MaxScore for every run.
type Registry struct {
	catalogue map[seo.Category][]Check
}

// NewRegistry builds the full catalogue.
func NewRegistry() *Registry {
	r := &Registry{catalogue: make(map[seo.Category][]Check)}
	r.register(seo.CategoryContentQuality, contentQualityChecks()...)
	r.register(seo.CategoryTechnicalSEO, technicalChecks()...)
	r.register(seo.CategoryOnPageElements, onPageChecks()...)
	r.register(seo.CategoryUserExperience, userExperienceChecks()...)
	r.register(seo.CategoryContentStructure, structureChecks()...)
	r.register(seo.CategorySocialOptimization, socialChecks()...)
	r.register(seo.CategoryLocalSEO, localChecks()...)
	r.register(seo.CategoryAdvancedAnalytics, analyticsChecks()...)
	return r
}

func (r *Registry) register(cat seo.Category, checks ...Check) {
	r.catalogue[cat] = append(r.catalogue[cat], checks...)
}

// Size returns the number of checks registered for a category.
func (r *Registry) Size(cat seo.Category) int {
	return len(r.catalogue[cat])
}

// Evaluate runs every check against the document and returns results
// grouped by category, preserving registration order.
func (r *Registry) Evaluate(doc *seo.Document, opts Options) map[seo.Category][]seo.CheckResult {
	out := make(map[seo.Category][]seo.CheckResult, len(r.catalogue))
	for _, cat := range seo.Categories {
		checks := r.catalogue[cat]
		results := make([]seo.CheckResult, 0, len(checks))
		for _, c := range checks {
			results = append(results, runContained(c, doc, opts))
		}
		out[cat] = results
	}
	return out
}

// runContained converts a panicking check into an error-status result.
func runContained(c Check, doc *seo.Document, opts Options) (res seo.CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = seo.CheckResult{
				Factor:      c.Factor,
				Status:      seo.StatusError,
				Description: fmt.Sprintf("check could not be evaluated: %v", rec),
			}
		}
	}()
	res = c.Run(doc, opts)
	if res.Factor == "" {
		res.Factor = c.Factor
	}
	return res
}

// scaled maps a 0..1 coverage ratio onto the status ladder.
func scaled(ratio float64) seo.Status {
	switch {
	case ratio >= 0.95:
		return seo.StatusExcellent
	case ratio >= 0.75:
		return seo.StatusGood
	case ratio >= 0.5:
		return seo.StatusFair
	case ratio >= 0.25:
		return seo.StatusWarning
	default:
		return seo.StatusPoor
	}
}
