package seo

import "time"

// Category names a group of related checks. Declaration order is the
// tie-break order for summary selection and must stay stable.
type Category string

const (
	CategoryContentQuality     Category = "contentQuality"
	CategoryTechnicalSEO       Category = "technicalSeo"
	CategoryOnPageElements     Category = "onPageElements"
	CategoryUserExperience     Category = "userExperience"
	CategoryContentStructure   Category = "contentStructure"
	CategorySocialOptimization Category = "socialOptimization"
	CategoryLocalSEO           Category = "localSeo"
	CategoryAdvancedAnalytics  Category = "advancedAnalytics"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryContentQuality,
	CategoryTechnicalSEO,
	CategoryOnPageElements,
	CategoryUserExperience,
	CategoryContentStructure,
	CategorySocialOptimization,
	CategoryLocalSEO,
	CategoryAdvancedAnalytics,
}

// CheckResult is the outcome of one rule evaluated against a document.
type CheckResult struct {
	Factor      string `json:"factor"`
	Status      Status `json:"status"`
	Description string `json:"description"`
}

// CategoryResult aggregates the checks of one category into a bounded
// score. MaxScore depends only on the number of registered checks.
type CategoryResult struct {
	Score    int           `json:"score"`
	MaxScore int           `json:"maxScore"`
	Checks   []CheckResult `json:"checks"`
}

// Ratio returns Score/MaxScore, or 0 when the category is empty.
func (c CategoryResult) Ratio() float64 {
	if c.MaxScore == 0 {
		return 0
	}
	return float64(c.Score) / float64(c.MaxScore)
}

// VitalRating classifies a Core Web Vital measurement.
type VitalRating string

const (
	RatingGood             VitalRating = "good"
	RatingNeedsImprovement VitalRating = "needs-improvement"
	RatingPoor             VitalRating = "poor"
)

// CoreWebVitalMetric is a single measured vital with its rating.
type CoreWebVitalMetric struct {
	Value  float64     `json:"value"`
	Rating VitalRating `json:"status"`
}

// CoreWebVitals holds the three standard page-experience metrics:
// LCP in seconds, INP in milliseconds, CLS unitless.
type CoreWebVitals struct {
	LCP CoreWebVitalMetric `json:"lcp"`
	INP CoreWebVitalMetric `json:"inp"`
	CLS CoreWebVitalMetric `json:"cls"`
}

// ProfileResult is the performance result for one device profile.
type ProfileResult struct {
	Score         int           `json:"score"`
	CoreWebVitals CoreWebVitals `json:"coreWebVitals"`
}

// PageSpeedResult carries whichever profiles the performance client
// produced in time. Either profile may be nil.
type PageSpeedResult struct {
	Desktop *ProfileResult `json:"desktop,omitempty"`
	Mobile  *ProfileResult `json:"mobile,omitempty"`
}

// Summary points at the weakest and strongest categories of a run.
type Summary struct {
	TopPriority Category `json:"topPriority"`
	Strength    Category `json:"strength"`
}

// AnalysisResult is the composed report for one audited URL.
// OverallScore is always derived from the category results.
type AnalysisResult struct {
	URL          string                      `json:"url"`
	OverallScore int                         `json:"overallScore"`
	Categories   map[Category]CategoryResult `json:"categories"`
	PageSpeed    *PageSpeedResult            `json:"pageSpeed,omitempty"`
	Summary      Summary                     `json:"summary"`
	AnalyzedAt   time.Time                   `json:"analyzedAt"`
}
