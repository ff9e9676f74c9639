package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/plugilode/corpintel/internal/entity"
)

// ExportFilename builds the download name for a record dossier export.
func ExportFilename(recordID string, now time.Time) string {
	return fmt.Sprintf("%s_%s.txt", recordID, now.Format("20060102_150405"))
}

// ExportRecordText renders a record as an uppercase FIELD: value dossier.
// Nested values are rendered as indented JSON. The verification ledger is an
// internal audit trail and stays out of the export.
func ExportRecordText(rec entity.Record) (string, error) {
	var b strings.Builder

	writeLine := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	writeJSON := func(key string, value any) error {
		encoded, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", strings.ToLower(key), err)
		}
		writeLine(key, string(encoded))
		return nil
	}

	writeLine("ID", rec.ID)
	writeLine("STATUS", rec.Status)
	writeLine("LEVEL", rec.Level)
	writeLine("LASTACCESSED", rec.LastAccessed)
	writeLine("SUBJECT", rec.Subject)
	writeLine("DETAILS", rec.Details)
	writeLine("REQUIREDCLEARANCE", rec.RequiredClearance)
	writeLine("NAME", rec.Name)
	writeLine("ADDRESS", rec.Address)
	writeLine("ZIPCODE", rec.ZipCode)
	writeLine("CITY", rec.City)
	writeLine("COUNTRY", rec.Country)
	writeLine("LOGO", rec.Logo)
	if err := writeJSON("IMAGES", rec.Images); err != nil {
		return "", err
	}
	if err := writeJSON("CATEGORY", rec.Categories); err != nil {
		return "", err
	}
	if err := writeJSON("TAGS", rec.Tags); err != nil {
		return "", err
	}
	if err := writeJSON("SOCIALMEDIA", rec.SocialMedia); err != nil {
		return "", err
	}
	writeLine("DESCRIPTION", rec.Description)
	writeLine("SOURCEFOUND", rec.SourceFound)
	writeLine("CEO", rec.CEO)
	if err := writeJSON("PREVIOUSCEOS", rec.PreviousCEOs); err != nil {
		return "", err
	}
	if err := writeJSON("LANGUAGE", rec.Languages); err != nil {
		return "", err
	}
	writeLine("TAXID", rec.TaxID)
	if rec.Metrics != nil {
		if err := writeJSON("METRICS", rec.Metrics); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}
