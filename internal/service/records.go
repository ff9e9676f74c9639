package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/service/search"
)

// RecordsService exposes read/write operations for the record catalogue.
type RecordsService struct {
	repo repository.RecordsRepository
}

// NewRecordsService creates a new instance of RecordsService.
func NewRecordsService(repo repository.RecordsRepository) *RecordsService {
	return &RecordsService{repo: repo}
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// ListRecords takes one snapshot of the store, applies the free-text filter
// and the structured filters in memory, then paginates.
func (s *RecordsService) ListRecords(ctx context.Context, filter dto.RecordFilter) ([]entity.Record, error) {
	snapshot, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	results := search.Filter(snapshot, filter.Q)
	results = applyStructuredFilters(results, filter)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	start := (page - 1) * perPage
	if start >= len(results) {
		return []entity.Record{}, nil
	}
	end := start + perPage
	if end > len(results) {
		end = len(results)
	}
	return results[start:end], nil
}

// Snapshot returns the full catalogue for analytical reads.
func (s *RecordsService) Snapshot(ctx context.Context) ([]entity.Record, error) {
	return s.repo.GetAll(ctx)
}

// GetRecord fetches one record by id.
func (s *RecordsService) GetRecord(ctx context.Context, id string) (*entity.Record, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateRecord fills defaults, allocates a CORP-NNNN id and stores the record.
func (s *RecordsService) CreateRecord(ctx context.Context, req dto.CreateRecordRequest) (*entity.Record, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("record name is required")
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}

	rec := entity.Record{
		ID:           id,
		Name:         name,
		Subject:      strings.TrimSpace(req.Subject),
		Description:  strings.TrimSpace(req.Description),
		CEO:          strings.TrimSpace(req.CEO),
		Address:      strings.TrimSpace(req.Address),
		ZipCode:      strings.TrimSpace(req.ZipCode),
		City:         strings.TrimSpace(req.City),
		Country:      strings.TrimSpace(req.Country),
		Logo:         strings.TrimSpace(req.Logo),
		Categories:   req.Categories,
		Tags:         req.Tags,
		SocialMedia:  cleanSocialMedia(req.SocialMedia),
		Languages:    req.Languages,
		PreviousCEOs: req.PreviousCEOs,
		TaxID:        strings.TrimSpace(req.TaxID),
		Metrics:      req.Metrics,
	}
	applyRecordDefaults(&rec)

	if err := s.repo.Add(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateRecord applies a partial edit. Social links are canonicalized before
// they reach the store.
func (s *RecordsService) UpdateRecord(ctx context.Context, id string, patch dto.RecordPatch) (*entity.Record, error) {
	if patch.Empty() {
		return s.repo.GetByID(ctx, id)
	}
	if patch.SocialMedia != nil {
		cleaned := cleanSocialMedia(*patch.SocialMedia)
		patch.SocialMedia = &cleaned
	}
	return s.repo.Update(ctx, id, patch)
}

var requiredCSVHeaders = []string{"name", "subject", "description", "ceo", "address", "city", "country", "categories", "tags"}

// ImportRecordsCSV ingests catalogue rows from a CSV reader. Rows may carry
// an optional id column; rows without one get a freshly generated id.
func (s *RecordsService) ImportRecordsCSV(ctx context.Context, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}
	idColumn, hasIDColumn := indexMap["id"]

	var (
		records []entity.Record
		rowNum  = 1
		staged  = make(map[string]struct{})
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}

		rowNum++

		name := strings.TrimSpace(row[indexMap["name"]])
		if name == "" {
			continue
		}

		id := ""
		if hasIDColumn {
			id = strings.TrimSpace(row[idColumn])
		}
		generated := false
		if id == "" {
			id, err = s.repo.NextID(ctx)
			if err != nil {
				return UploadSummary{}, err
			}
			generated = true
		} else if repository.ParseRecordID(id) == 0 {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid record id on row %d", rowNum)}
		}

		// NextID scans stored ids only, so bump freshly generated ids past
		// rows already staged in this batch. Explicit ids address existing
		// records and must never be renumbered.
		if generated {
			for {
				if _, taken := staged[id]; !taken {
					break
				}
				id = repository.FormatRecordID(repository.ParseRecordID(id) + 1)
			}
		}
		staged[id] = struct{}{}

		rec := entity.Record{
			ID:          id,
			Name:        name,
			Subject:     strings.TrimSpace(row[indexMap["subject"]]),
			Description: strings.TrimSpace(row[indexMap["description"]]),
			CEO:         strings.TrimSpace(row[indexMap["ceo"]]),
			Address:     strings.TrimSpace(row[indexMap["address"]]),
			City:        strings.TrimSpace(row[indexMap["city"]]),
			Country:     strings.TrimSpace(row[indexMap["country"]]),
			Categories:  splitListColumn(row[indexMap["categories"]]),
			Tags:        plainTags(splitListColumn(row[indexMap["tags"]])),
		}
		applyRecordDefaults(&rec)
		records = append(records, rec)
	}

	result, err := s.repo.BulkImport(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}

	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Total:    result.Total,
	}, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func applyStructuredFilters(records []entity.Record, filter dto.RecordFilter) []entity.Record {
	if filter.Category == "" && filter.Country == "" && filter.City == "" {
		return records
	}

	matched := make([]entity.Record, 0, len(records))
	for _, rec := range records {
		if filter.Country != "" && !strings.EqualFold(rec.Country, filter.Country) {
			continue
		}
		if filter.City != "" && !strings.EqualFold(rec.City, filter.City) {
			continue
		}
		if filter.Category != "" && !hasCategory(rec, filter.Category) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched
}

func hasCategory(rec entity.Record, category string) bool {
	for _, cat := range rec.Categories {
		if strings.EqualFold(cat, category) {
			return true
		}
	}
	return false
}

func applyRecordDefaults(rec *entity.Record) {
	if rec.Subject == "" {
		rec.Subject = strings.ToUpper(rec.Name)
	}
	if rec.Status == "" {
		rec.Status = "ACTIVE"
	}
	if rec.Level == "" {
		rec.Level = "PUBLIC"
	}
	if rec.SourceFound == "" {
		rec.SourceFound = "MANUAL ENTRY"
	}
}

func splitListColumn(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == '|' || r == ';'
	})
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

func plainTags(names []string) []entity.Tag {
	if len(names) == 0 {
		return nil
	}
	tags := make([]entity.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, entity.PlainTag(name))
	}
	return tags
}
