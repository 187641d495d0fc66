package model

// WebsiteStatus classifies a candidate's web presence.
type WebsiteStatus string

const (
	// StatusNoWebsite means no URL was known, or the site does not exist
	// (DNS failure / connection refused). Never produced after a
	// successful fetch.
	StatusNoWebsite WebsiteStatus = "no_website"
	// StatusLowQuality means the site was reached (or errored transiently)
	// and scored below the quality threshold.
	StatusLowQuality WebsiteStatus = "low_quality"
	// StatusGoodQuality means the site scored at or above the threshold.
	StatusGoodQuality WebsiteStatus = "good_quality"
)

// GoodQualityThreshold is the minimum score classified as good quality.
const GoodQualityThreshold = 70

// WebsiteAnalysis is the scored assessment of one candidate's website at
// fetch time. Issues is never empty: when no check failed it holds a
// single "no major issues" marker.
type WebsiteAnalysis struct {
	Status WebsiteStatus `json:"status"`
	Score  int           `json:"score"`
	Issues []string      `json:"issues"`
}

// Lead is the unit emitted to the consumer: one business record plus its
// website analysis. Never mutated after emission.
type Lead struct {
	BusinessRecord
	Analysis WebsiteAnalysis `json:"website_analysis"`
}
