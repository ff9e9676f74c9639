package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
)

func seedRecords() []entity.Record {
	return []entity.Record{
		{ID: "CORP-0001", Name: "Tesla", Country: "USA", Categories: []string{"AUTOMOTIVE"}},
		{ID: "CORP-0002", Name: "SAP", Country: "Germany", Categories: []string{"TECH", "SAAS"}},
	}
}

func TestNewMemoryRecordsRepositoryRejectsDuplicateSeed(t *testing.T) {
	_, err := NewMemoryRecordsRepository([]entity.Record{
		{ID: "CORP-0001", Name: "A"},
		{ID: "CORP-0001", Name: "B"},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestMemoryGetAllReturnsIsolatedSnapshot(t *testing.T) {
	repo, err := NewMemoryRecordsRepository(seedRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot[0].Categories[0] = "MUTATED"
	snapshot[0].Name = "Mutated"

	fresh, err := repo.GetByID(context.Background(), "CORP-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Name != "Tesla" || fresh.Categories[0] != "AUTOMOTIVE" {
		t.Fatalf("snapshot mutation leaked into the store: %+v", fresh)
	}
}

func TestMemoryAddRejectsDuplicateAndStampsTimes(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository(seedRecords())

	rec := entity.Record{ID: "CORP-0003", Name: "plugilo"}
	if err := repo.Add(context.Background(), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), "CORP-0003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps stamped, got %+v", stored)
	}

	dup := entity.Record{ID: "CORP-0003", Name: "Other"}
	if err := repo.Add(context.Background(), &dup); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestMemoryNextIDSkipsGaps(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository([]entity.Record{
		{ID: "CORP-0001", Name: "A"},
		{ID: "CORP-0007", Name: "B"},
	})

	id, err := repo.NextID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "CORP-0008" {
		t.Fatalf("expected CORP-0008, got %s", id)
	}
}

func TestMemoryUpdateResetsVerificationOnEditedFields(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository(seedRecords())
	ctx := context.Background()

	entry := entity.VerificationEntry{
		Timestamp:  time.Now().UTC(),
		Action:     entity.ActionVerify,
		FieldName:  "ceo",
		VerifiedBy: "u1",
	}
	if _, err := repo.AppendVerification(ctx, "CORP-0001", "ceo", entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newCEO := "New CEO"
	updated, err := repo.Update(ctx, "CORP-0001", dto.RecordPatch{CEO: &newCEO})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := updated.VerificationStatus["ceo"]
	if status == nil {
		t.Fatalf("expected verification status kept")
	}
	if status.Verified {
		t.Fatalf("editing a verified field must reset it to unverified")
	}
	if len(status.Entries) != 1 {
		t.Fatalf("ledger entries must survive the reset, got %d", len(status.Entries))
	}
	if updated.CEO != "New CEO" {
		t.Fatalf("patch not applied: %+v", updated)
	}
}

func TestMemoryUpdateLeavesUntouchedFieldsVerified(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository(seedRecords())
	ctx := context.Background()

	entry := entity.VerificationEntry{
		Timestamp:  time.Now().UTC(),
		Action:     entity.ActionVerify,
		FieldName:  "country",
		VerifiedBy: "u1",
	}
	if _, err := repo.AppendVerification(ctx, "CORP-0001", "country", entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newCEO := "New CEO"
	updated, err := repo.Update(ctx, "CORP-0001", dto.RecordPatch{CEO: &newCEO})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status := updated.VerificationStatus["country"]; status == nil || !status.Verified {
		t.Fatalf("unrelated field lost its verification: %+v", status)
	}
}

func TestMemoryAppendVerificationMutualExclusion(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository(seedRecords())
	ctx := context.Background()

	verify := entity.VerificationEntry{Timestamp: time.Now().UTC(), Action: entity.ActionVerify, FieldName: "ceo", VerifiedBy: "u1"}
	flag := entity.VerificationEntry{Timestamp: time.Now().UTC().Add(time.Minute), Action: entity.ActionFlag, FieldName: "ceo", VerifiedBy: "u2"}

	if _, err := repo.AppendVerification(ctx, "CORP-0001", "ceo", verify); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	status, err := repo.AppendVerification(ctx, "CORP-0001", "ceo", flag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.Verified || !status.Flagged {
		t.Fatalf("flag must clear verified, got %+v", status)
	}
	if len(status.Entries) != 2 {
		t.Fatalf("expected full ledger, got %d entries", len(status.Entries))
	}
	if status.VerifiedBy != "u2" || !status.LastChecked.Equal(flag.Timestamp) {
		t.Fatalf("latest entry must win: %+v", status)
	}
}

func TestMemoryAppendVerificationUnknownRecord(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository(nil)

	entry := entity.VerificationEntry{Action: entity.ActionVerify, FieldName: "ceo"}
	if _, err := repo.AppendVerification(context.Background(), "CORP-9999", "ceo", entry); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemoryBulkImportUpsertsByID(t *testing.T) {
	repo, _ := NewMemoryRecordsRepository(seedRecords())
	ctx := context.Background()

	entry := entity.VerificationEntry{Timestamp: time.Now().UTC(), Action: entity.ActionVerify, FieldName: "name", VerifiedBy: "u1"}
	if _, err := repo.AppendVerification(ctx, "CORP-0002", "name", entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := repo.BulkImport(ctx, []entity.Record{
		{ID: "CORP-0002", Name: "SAP SE"},
		{ID: "CORP-0003", Name: "plugilo"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 1 || result.Updated != 1 || result.Total != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	replaced, err := repo.GetByID(ctx, "CORP-0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced.Name != "SAP SE" {
		t.Fatalf("replace did not apply: %+v", replaced)
	}
	if replaced.VerificationStatus["name"] == nil {
		t.Fatalf("verification ledger must survive a bulk replace")
	}
}
