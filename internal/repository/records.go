package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
)

var (
	// ErrRecordNotFound is returned when no record matches the given id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when inserting a record whose id is taken.
	ErrDuplicateID = errors.New("record id already exists")
)

// RecordIDPrefix is the scheme used for generated record identifiers.
const RecordIDPrefix = "CORP-"

// RecordsRepository describes persistence operations for company records.
// Every mutation is an atomic unit: implementations must not let readers
// observe a partially applied update.
type RecordsRepository interface {
	GetAll(ctx context.Context) ([]entity.Record, error)
	GetByID(ctx context.Context, id string) (*entity.Record, error)
	Add(ctx context.Context, record *entity.Record) error
	Update(ctx context.Context, id string, patch dto.RecordPatch) (*entity.Record, error)
	NextID(ctx context.Context) (string, error)
	AppendVerification(ctx context.Context, recordID, fieldName string, entry entity.VerificationEntry) (*entity.FieldVerification, error)
	BulkImport(ctx context.Context, records []entity.Record) (BulkImportResult, error)
}

// BulkImportResult summarises how many records were inserted or replaced.
type BulkImportResult struct {
	Inserted int
	Updated  int
	Total    int
}

// FormatRecordID renders a numeric suffix in the CORP-NNNN scheme.
func FormatRecordID(n int) string {
	return fmt.Sprintf("%s%04d", RecordIDPrefix, n)
}

// ParseRecordID extracts the numeric suffix from a CORP-NNNN id.
// Returns 0 for ids outside the scheme.
func ParseRecordID(id string) int {
	rest, ok := strings.CutPrefix(id, RecordIDPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// applyPatch mutates the record in place and returns the verification field
// names whose values changed. Field names follow the record's JSON names so
// they line up with verificationStatus keys.
func applyPatch(rec *entity.Record, patch dto.RecordPatch) []string {
	var changed []string

	setString := func(field string, dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = append(changed, field)
		}
	}

	setString("name", &rec.Name, patch.Name)
	setString("subject", &rec.Subject, patch.Subject)
	setString("description", &rec.Description, patch.Description)
	setString("ceo", &rec.CEO, patch.CEO)
	setString("address", &rec.Address, patch.Address)
	setString("zipCode", &rec.ZipCode, patch.ZipCode)
	setString("city", &rec.City, patch.City)
	setString("country", &rec.Country, patch.Country)
	setString("status", &rec.Status, patch.Status)
	setString("level", &rec.Level, patch.Level)
	setString("logo", &rec.Logo, patch.Logo)
	setString("details", &rec.Details, patch.Details)
	setString("sourceFound", &rec.SourceFound, patch.SourceFound)
	setString("taxId", &rec.TaxID, patch.TaxID)

	if patch.Categories != nil {
		rec.Categories = append([]string(nil), (*patch.Categories)...)
		changed = append(changed, "category")
	}
	if patch.Tags != nil {
		rec.Tags = append([]entity.Tag(nil), (*patch.Tags)...)
		changed = append(changed, "tags")
	}
	if patch.SocialMedia != nil && *patch.SocialMedia != rec.SocialMedia {
		rec.SocialMedia = *patch.SocialMedia
		changed = append(changed, "socialMedia")
	}
	if patch.Languages != nil {
		rec.Languages = append([]string(nil), (*patch.Languages)...)
		changed = append(changed, "language")
	}
	if patch.PreviousCEOs != nil {
		rec.PreviousCEOs = append([]string(nil), (*patch.PreviousCEOs)...)
		changed = append(changed, "previousCEOs")
	}
	if patch.Images != nil {
		rec.Images = append([]string(nil), (*patch.Images)...)
		changed = append(changed, "images")
	}
	if patch.Metrics != nil {
		metrics := *patch.Metrics
		metrics.TopProducts = append([]entity.TopProduct(nil), patch.Metrics.TopProducts...)
		rec.Metrics = &metrics
		changed = append(changed, "metrics")
	}

	return changed
}

// resetVerification marks edited fields unverified. The ledger entries stay
// intact; only the latest status is cleared pending an explicit re-verify.
func resetVerification(rec *entity.Record, fields []string) {
	if rec.VerificationStatus == nil {
		return
	}
	for _, field := range fields {
		if status, ok := rec.VerificationStatus[field]; ok && status != nil {
			status.Verified = false
			status.Flagged = false
		}
	}
}
