// Package insight contains the read-only analytical functions composed into
// the record insights view: similarity ranking, market trend aggregation and
// the rule-based anomaly check.
package insight

import (
	"errors"
	"sort"

	"github.com/plugilode/corpintel/internal/entity"
)

// DefaultSimilarLimit is the number of neighbours returned when the caller
// does not specify k.
const DefaultSimilarLimit = 5

// ErrInvalidLimit is returned when the requested result count is not positive.
var ErrInvalidLimit = errors.New("similarity limit must be positive")

// ScoredRecord pairs a candidate with its similarity score.
type ScoredRecord struct {
	Record entity.Record `json:"record"`
	Score  float64       `json:"score"`
}

// Similar ranks the pool against the target by label overlap and returns the
// top k candidates. The score is |T ∩ O| / max(|T|, |O|) over the union of
// category and tag-name sets; two empty label sets score 0. The target itself
// is excluded by id, the sort is stable so ties keep input order.
func Similar(target entity.Record, pool []entity.Record, k int) ([]ScoredRecord, error) {
	if k <= 0 {
		return nil, ErrInvalidLimit
	}

	targetLabels := labelSet(target)

	scored := make([]ScoredRecord, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == target.ID {
			continue
		}
		scored = append(scored, ScoredRecord{
			Record: candidate,
			Score:  overlapScore(targetLabels, labelSet(candidate)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// labelSet collects the record's categories and tag display names.
func labelSet(rec entity.Record) map[string]struct{} {
	labels := make(map[string]struct{}, len(rec.Categories)+len(rec.Tags))
	for _, cat := range rec.Categories {
		labels[cat] = struct{}{}
	}
	for _, tag := range rec.Tags {
		labels[tag.DisplayName()] = struct{}{}
	}
	return labels
}

// overlapScore normalizes the intersection by the larger set. Not true
// Jaccard (which divides by the union); the max-normalized form is kept for
// compatibility with the scores users already see.
func overlapScore(a, b map[string]struct{}) float64 {
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	if larger == 0 {
		return 0
	}

	intersection := 0
	for label := range a {
		if _, ok := b[label]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(larger)
}
