package insight

import "github.com/plugilode/corpintel/internal/entity"

// Rule thresholds for the anomaly check. Compiled-in on purpose: the check is
// a fixed predicate battery, not a configurable detector.
const (
	minDescriptionLength = 50
	maxCategoryCount     = 10
)

// Finding messages, in check order.
const (
	findingShortDescription  = "Insufficient company description"
	findingMissingCEO        = "Missing CEO information"
	findingNoSocialMedia     = "No social media presence"
	findingTooManyCategories = "Unusually high number of categories"
)

// RuleBasedAnomalyCheck evaluates every rule against the record and returns
// the findings in check order. All rules run unconditionally.
func RuleBasedAnomalyCheck(rec entity.Record) []string {
	findings := []string{}

	if len(rec.Description) < minDescriptionLength {
		findings = append(findings, findingShortDescription)
	}
	if rec.CEO == "" {
		findings = append(findings, findingMissingCEO)
	}
	if !rec.SocialMedia.HasPresence() {
		findings = append(findings, findingNoSocialMedia)
	}
	if len(rec.Categories) > maxCategoryCount {
		findings = append(findings, findingTooManyCategories)
	}

	return findings
}
