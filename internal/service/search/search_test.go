package search

import (
	"testing"

	"github.com/plugilode/corpintel/internal/entity"
)

func sampleRecords() []entity.Record {
	return []entity.Record{
		{ID: "CORP-0001", Name: "Tesla, Inc.", Subject: "TESLA INC", City: "Austin", Country: "USA", Categories: []string{"AUTOMOTIVE"}, Tags: []entity.Tag{entity.PlainTag("EV")}},
		{ID: "CORP-0002", Name: "SAP SE", Subject: "SAP SE", City: "Walldorf", Country: "Germany", Categories: []string{"TECH", "ERP"}, Tags: []entity.Tag{{Name: "HANA", Source: "annual-report"}}},
		{ID: "CORP-0003", Name: "plugilo, Inc.", Subject: "PLUGILO INC", City: "Dallas", Country: "USA", Categories: []string{"SAAS"}},
	}
}

func TestFilter_EmptyQueryReturnsAllInOrder(t *testing.T) {
	records := sampleRecords()
	got := Filter(records, "")
	if len(got) != len(records) {
		t.Fatalf("expected all %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].ID != records[i].ID {
			t.Fatalf("expected order preserved, got %s at %d", got[i].ID, i)
		}
	}
}

func TestFilter_CaseInsensitive(t *testing.T) {
	records := sampleRecords()
	upper := Filter(records, "SAP")
	lower := Filter(records, "sap")
	if len(upper) != 1 || len(lower) != 1 {
		t.Fatalf("expected one match for both cases, got %d and %d", len(upper), len(lower))
	}
	if upper[0].ID != lower[0].ID {
		t.Fatalf("expected identical results regardless of case")
	}
}

func TestFilter_FieldCoverage(t *testing.T) {
	records := sampleRecords()

	cases := []struct {
		query string
		want  string
	}{
		{"corp-0003", "CORP-0003"},  // id
		{"walldorf", "CORP-0002"},   // city
		{"automotive", "CORP-0001"}, // category
		{"hana", "CORP-0002"},       // sourced tag display name
		{"tesla inc", "CORP-0001"},  // subject
	}

	for _, tc := range cases {
		got := Filter(records, tc.query)
		if len(got) != 1 || got[0].ID != tc.want {
			t.Fatalf("Filter(%q): expected [%s], got %d results", tc.query, tc.want, len(got))
		}
	}
}

func TestFilter_NoMatchAndSubset(t *testing.T) {
	records := sampleRecords()
	if got := Filter(records, "zzz-not-there"); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}

	got := Filter(records, "usa")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != "CORP-0001" || got[1].ID != "CORP-0003" {
		t.Fatalf("expected input order in subset, got %s, %s", got[0].ID, got[1].ID)
	}
}
