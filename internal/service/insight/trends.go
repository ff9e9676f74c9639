package insight

import (
	"sort"

	"github.com/plugilode/corpintel/internal/entity"
)

// topCategoryCount caps how many dominant categories a trend report lists.
const topCategoryCount = 5

// CategoryCount is one category with its occurrence count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendReport aggregates category frequencies across the catalogue.
type TrendReport struct {
	DominantCategories   []CategoryCount    `json:"dominantCategories"`
	TotalCompanies       int                `json:"totalCompanies"`
	CategoryDistribution map[string]float64 `json:"categoryDistribution"`
}

// MarketTrends counts every category occurrence (case-sensitive, duplicates
// included) and reports the top five with their share of the record set.
// Ties keep first-seen order.
func MarketTrends(records []entity.Record) TrendReport {
	counts := make(map[string]int)
	var firstSeen []string
	for _, rec := range records {
		for _, cat := range rec.Categories {
			if _, seen := counts[cat]; !seen {
				firstSeen = append(firstSeen, cat)
			}
			counts[cat]++
		}
	}

	ranked := make([]CategoryCount, 0, len(firstSeen))
	for _, cat := range firstSeen {
		ranked = append(ranked, CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}

	report := TrendReport{
		DominantCategories:   ranked,
		TotalCompanies:       len(records),
		CategoryDistribution: make(map[string]float64, len(ranked)),
	}
	for _, entry := range ranked {
		report.CategoryDistribution[entry.Category] = float64(entry.Count) / float64(len(records)) * 100
	}
	return report
}
