package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/plugilode/corpintel/internal/dto"
)

var (
	queryStopwords  = regexp.MustCompile(`(?i)\b(find|show|list|search|all|the|me|please|companies|company|firms|firm)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|from)\s+([a-zA-Z\s]+)`)
)

// Countries the location clause resolves to a country filter instead of a
// city filter. Lowercased for lookup.
var knownCountries = map[string]struct{}{
	"germany":        {},
	"deutschland":    {},
	"usa":            {},
	"united states":  {},
	"france":         {},
	"united kingdom": {},
	"uk":             {},
	"switzerland":    {},
	"austria":        {},
	"netherlands":    {},
	"spain":          {},
	"italy":          {},
}

// QueryService interprets free-form catalogue queries such as
// "saas companies in Germany" into structured filters.
type QueryService struct {
	DefaultCountry string
}

// NewQueryService creates a query parser with sensible defaults.
func NewQueryService(defaultCountry string) *QueryService {
	return &QueryService{DefaultCountry: strings.TrimSpace(defaultCountry)}
}

// Parse converts a search request into a structured record filter.
func (s *QueryService) Parse(req dto.QuerySearchRequest) (dto.RecordFilter, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return dto.RecordFilter{}, errors.New("query is required")
	}

	location, term := extractLocationAndTerm(query)

	filter := dto.RecordFilter{Q: term}
	if location != "" {
		if _, ok := knownCountries[strings.ToLower(location)]; ok {
			filter.Country = location
		} else {
			filter.City = location
		}
	}
	if country := strings.TrimSpace(req.Country); country != "" {
		filter.Country = country
	} else if filter.Country == "" && filter.City == "" && s.DefaultCountry != "" {
		filter.Country = s.DefaultCountry
	}
	return filter, nil
}

func extractLocationAndTerm(query string) (string, string) {
	match := locationPattern.FindStringSubmatch(query)
	location := ""
	if len(match) > 1 {
		location = titleCase(match[1])
	}

	lower := strings.ToLower(query)
	if len(match) > 0 {
		idx := strings.Index(lower, strings.ToLower(match[0]))
		if idx >= 0 {
			query = strings.TrimSpace(query[:idx])
		}
	}

	term := queryStopwords.ReplaceAllString(query, "")
	term = strings.Join(strings.Fields(term), " ")
	return location, term
}

func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	parts := strings.Fields(value)
	for i, p := range parts {
		lower := strings.ToLower(p)
		if len(lower) == 0 {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
