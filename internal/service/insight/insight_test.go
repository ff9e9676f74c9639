package insight

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/plugilode/corpintel/internal/entity"
)

func TestSimilar_RanksByLabelOverlap(t *testing.T) {
	target := entity.Record{ID: "CORP-0001", Categories: []string{"TECH", "SAAS"}, Tags: []entity.Tag{entity.PlainTag("AI")}}
	pool := []entity.Record{
		target,
		{ID: "CORP-0002", Categories: []string{"TECH"}, Tags: []entity.Tag{entity.PlainTag("AI"), entity.PlainTag("CLOUD")}},
		{ID: "CORP-0003", Categories: []string{"RETAIL"}},
	}

	got, err := Similar(target, pool, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Record.ID != "CORP-0002" {
		t.Fatalf("expected [CORP-0002], got %+v", got)
	}
	// |{TECH,SAAS,AI} ∩ {TECH,AI,CLOUD}| / max(3,3) = 2/3
	if math.Abs(got[0].Score-2.0/3.0) > 1e-9 {
		t.Fatalf("expected score 2/3, got %f", got[0].Score)
	}
}

func TestSimilar_ExcludesTargetAndCapsLength(t *testing.T) {
	target := entity.Record{ID: "CORP-0001", Categories: []string{"TECH"}}
	pool := []entity.Record{
		target,
		{ID: "CORP-0002", Categories: []string{"TECH"}},
		{ID: "CORP-0003", Categories: []string{"TECH"}},
	}

	got, err := Similar(target, pool, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	for _, sc := range got {
		if sc.Record.ID == target.ID {
			t.Fatalf("target must not appear in its own neighbours")
		}
	}
}

func TestSimilar_ScoresNonIncreasing(t *testing.T) {
	target := entity.Record{ID: "T", Categories: []string{"A", "B", "C"}}
	pool := []entity.Record{
		{ID: "P1", Categories: []string{"A"}},
		{ID: "P2", Categories: []string{"A", "B", "C"}},
		{ID: "P3", Categories: []string{"A", "B"}},
		{ID: "P4", Categories: []string{"Z"}},
	}

	got, err := Similar(target, pool, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("scores must be non-increasing: %f after %f", got[i].Score, got[i-1].Score)
		}
	}
	if got[0].Record.ID != "P2" {
		t.Fatalf("expected exact match ranked first, got %s", got[0].Record.ID)
	}
}

func TestSimilar_EmptyLabelSetsScoreZero(t *testing.T) {
	target := entity.Record{ID: "T"}
	pool := []entity.Record{{ID: "P"}}

	got, err := Similar(target, pool, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d", len(got))
	}
	if got[0].Score != 0 || math.IsNaN(got[0].Score) {
		t.Fatalf("expected defined zero score, got %f", got[0].Score)
	}
}

func TestSimilar_InvalidLimit(t *testing.T) {
	if _, err := Similar(entity.Record{ID: "T"}, nil, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := Similar(entity.Record{ID: "T"}, nil, -3); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for negative k, got %v", err)
	}
}

func TestSimilar_StableTieBreak(t *testing.T) {
	target := entity.Record{ID: "T", Categories: []string{"A"}}
	pool := []entity.Record{
		{ID: "P1", Categories: []string{"A"}},
		{ID: "P2", Categories: []string{"A"}},
	}

	got, err := Similar(target, pool, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Record.ID != "P1" || got[1].Record.ID != "P2" {
		t.Fatalf("expected input order on ties, got %s, %s", got[0].Record.ID, got[1].Record.ID)
	}
}

func TestMarketTrends_CountsAndDistribution(t *testing.T) {
	records := []entity.Record{
		{ID: "1", Categories: []string{"TECH", "SAAS"}},
		{ID: "2", Categories: []string{"TECH"}},
		{ID: "3", Categories: []string{"RETAIL", "TECH"}},
		{ID: "4", Categories: []string{"SAAS"}},
	}

	report := MarketTrends(records)
	if report.TotalCompanies != 4 {
		t.Fatalf("expected total 4, got %d", report.TotalCompanies)
	}
	if len(report.DominantCategories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(report.DominantCategories))
	}
	if report.DominantCategories[0].Category != "TECH" || report.DominantCategories[0].Count != 3 {
		t.Fatalf("expected TECH x3 first, got %+v", report.DominantCategories[0])
	}
	// SAAS (2) before RETAIL (1); ties keep first-seen order.
	if report.DominantCategories[1].Category != "SAAS" || report.DominantCategories[2].Category != "RETAIL" {
		t.Fatalf("unexpected ranking: %+v", report.DominantCategories)
	}
	if math.Abs(report.CategoryDistribution["TECH"]-75.0) > 1e-9 {
		t.Fatalf("expected TECH share 75%%, got %f", report.CategoryDistribution["TECH"])
	}
}

func TestMarketTrends_SingleCategoryShareSumsToAtMostHundred(t *testing.T) {
	records := []entity.Record{
		{ID: "1", Categories: []string{"TECH"}},
		{ID: "2", Categories: []string{"SAAS"}},
		{ID: "3", Categories: []string{"TECH"}},
	}

	report := MarketTrends(records)
	sum := 0.0
	for _, share := range report.CategoryDistribution {
		sum += share
	}
	if sum > 100.0+1e-9 {
		t.Fatalf("expected shares to sum to at most 100, got %f", sum)
	}
}

func TestMarketTrends_TopFiveOnly(t *testing.T) {
	records := []entity.Record{
		{ID: "1", Categories: []string{"A", "B", "C", "D", "E", "F", "G"}},
	}

	report := MarketTrends(records)
	if len(report.DominantCategories) != 5 {
		t.Fatalf("expected top 5, got %d", len(report.DominantCategories))
	}
	if len(report.CategoryDistribution) != 5 {
		t.Fatalf("expected distribution for top 5 only, got %d", len(report.CategoryDistribution))
	}
	// All counts tie at 1, so first-seen order wins.
	if report.DominantCategories[0].Category != "A" || report.DominantCategories[4].Category != "E" {
		t.Fatalf("expected first-seen tie-break, got %+v", report.DominantCategories)
	}
}

func TestMarketTrends_Deterministic(t *testing.T) {
	records := []entity.Record{
		{ID: "1", Categories: []string{"TECH", "SAAS"}},
		{ID: "2", Categories: []string{"SAAS"}},
	}

	first := MarketTrends(records)
	second := MarketTrends(records)
	if len(first.DominantCategories) != len(second.DominantCategories) {
		t.Fatalf("expected deterministic output")
	}
	for i := range first.DominantCategories {
		if first.DominantCategories[i] != second.DominantCategories[i] {
			t.Fatalf("expected identical ranking across runs")
		}
	}
}

func TestRuleBasedAnomalyCheck_FindingsInOrder(t *testing.T) {
	rec := entity.Record{ID: "CORP-0001", Description: "too short."}

	findings := RuleBasedAnomalyCheck(rec)
	if len(findings) < 2 {
		t.Fatalf("expected at least two findings, got %v", findings)
	}
	if findings[0] != "Insufficient company description" || findings[1] != "Missing CEO information" {
		t.Fatalf("expected description finding before CEO finding, got %v", findings)
	}
}

func TestRuleBasedAnomalyCheck_CleanRecord(t *testing.T) {
	rec := entity.Record{
		ID:          "CORP-0001",
		Description: strings.Repeat("solid description ", 5),
		CEO:         "Jane Doe",
		SocialMedia: entity.SocialMedia{LinkedIn: "https://www.linkedin.com/company/acme"},
		Categories:  []string{"TECH"},
	}

	if findings := RuleBasedAnomalyCheck(rec); len(findings) != 0 {
		t.Fatalf("expected no findings, got %v", findings)
	}
}

func TestRuleBasedAnomalyCheck_CategoryOverflow(t *testing.T) {
	rec := entity.Record{
		ID:          "CORP-0001",
		Description: strings.Repeat("x", 50),
		CEO:         "Jane Doe",
		SocialMedia: entity.SocialMedia{Twitter: "https://twitter.com/acme"},
		Categories:  make([]string, 11),
	}

	findings := RuleBasedAnomalyCheck(rec)
	if len(findings) != 1 || findings[0] != "Unusually high number of categories" {
		t.Fatalf("expected single category finding, got %v", findings)
	}
}
