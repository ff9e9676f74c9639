// Package search implements the catalogue's free-text filter: a
// case-insensitive substring match across a fixed set of denormalized record
// fields.
package search

import (
	"strings"

	"github.com/plugilode/corpintel/internal/entity"
)

// Filter returns the records whose searchable fields contain the query as a
// substring, preserving input order. The match is case-insensitive and an
// empty query matches every record.
func Filter(records []entity.Record, query string) []entity.Record {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}

	matched := make([]entity.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, needle) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// matches checks the fixed field set: name, subject, id, country, city, every
// category and every tag display name. Absent fields behave as empty strings.
func matches(rec entity.Record, needle string) bool {
	fields := []string{rec.Name, rec.Subject, rec.ID, rec.Country, rec.City}
	fields = append(fields, rec.Categories...)
	fields = append(fields, entity.TagNames(rec.Tags)...)

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
