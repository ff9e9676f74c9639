package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
)

// MemoryRecordsRepository keeps the catalogue in process memory, guarded by a
// single RWMutex so every mutation is an atomic unit. Reads hand out deep
// copies: callers always work on a consistent snapshot.
type MemoryRecordsRepository struct {
	mu      sync.RWMutex
	records []entity.Record
	index   map[string]int
}

// NewMemoryRecordsRepository builds a store seeded with the given records.
// Duplicate seed ids are rejected.
func NewMemoryRecordsRepository(seed []entity.Record) (*MemoryRecordsRepository, error) {
	repo := &MemoryRecordsRepository{
		records: make([]entity.Record, 0, len(seed)),
		index:   make(map[string]int, len(seed)),
	}
	for _, rec := range seed {
		if _, exists := repo.index[rec.ID]; exists {
			return nil, fmt.Errorf("seed record %s: %w", rec.ID, ErrDuplicateID)
		}
		repo.index[rec.ID] = len(repo.records)
		repo.records = append(repo.records, rec.Clone())
	}
	return repo, nil
}

// GetAll returns a snapshot of every record in insertion order.
func (r *MemoryRecordsRepository) GetAll(ctx context.Context) ([]entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]entity.Record, 0, len(r.records))
	for _, rec := range r.records {
		snapshot = append(snapshot, rec.Clone())
	}
	return snapshot, nil
}

// GetByID returns a copy of the record or ErrRecordNotFound.
func (r *MemoryRecordsRepository) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.index[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	rec := r.records[idx].Clone()
	return &rec, nil
}

// Add appends a new record. The id must be unique.
func (r *MemoryRecordsRepository) Add(ctx context.Context, record *entity.Record) error {
	if record == nil {
		return fmt.Errorf("record payload is nil")
	}
	if record.ID == "" {
		return fmt.Errorf("record id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[record.ID]; exists {
		return fmt.Errorf("add record %s: %w", record.ID, ErrDuplicateID)
	}
	stored := record.Clone()
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.index[stored.ID] = len(r.records)
	r.records = append(r.records, stored)
	return nil
}

// Update applies the patch atomically and returns the updated record.
// Patched fields with a verification status are reset to unverified.
func (r *MemoryRecordsRepository) Update(ctx context.Context, id string, patch dto.RecordPatch) (*entity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.index[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	rec := &r.records[idx]
	changed := applyPatch(rec, patch)
	if len(changed) > 0 {
		resetVerification(rec, changed)
		rec.UpdatedAt = time.Now().UTC()
	}
	dup := rec.Clone()
	return &dup, nil
}

// NextID allocates the next free CORP-NNNN identifier.
func (r *MemoryRecordsRepository) NextID(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	highest := 0
	for _, rec := range r.records {
		if n := ParseRecordID(rec.ID); n > highest {
			highest = n
		}
	}
	return FormatRecordID(highest + 1), nil
}

// AppendVerification writes one ledger entry under the store lock and returns
// the updated field status.
func (r *MemoryRecordsRepository) AppendVerification(ctx context.Context, recordID, fieldName string, entry entity.VerificationEntry) (*entity.FieldVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.index[recordID]
	if !ok {
		return nil, ErrRecordNotFound
	}

	rec := &r.records[idx]
	if rec.VerificationStatus == nil {
		rec.VerificationStatus = make(map[string]*entity.FieldVerification)
	}
	status, ok := rec.VerificationStatus[fieldName]
	if !ok || status == nil {
		status = &entity.FieldVerification{}
		rec.VerificationStatus[fieldName] = status
	}
	status.Apply(entry)
	rec.UpdatedAt = entry.Timestamp

	return status.Clone(), nil
}

// BulkImport inserts new records and replaces existing ones by id.
func (r *MemoryRecordsRepository) BulkImport(ctx context.Context, records []entity.Record) (BulkImportResult, error) {
	var result BulkImportResult
	if len(records) == 0 {
		return result, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, rec := range records {
		if rec.ID == "" {
			return result, fmt.Errorf("bulk import record %q: id must not be empty", rec.Name)
		}
		stored := rec.Clone()
		stored.UpdatedAt = now
		if idx, exists := r.index[stored.ID]; exists {
			stored.CreatedAt = r.records[idx].CreatedAt
			stored.VerificationStatus = r.records[idx].VerificationStatus
			r.records[idx] = stored
			result.Updated++
		} else {
			stored.CreatedAt = now
			r.index[stored.ID] = len(r.records)
			r.records = append(r.records, stored)
			result.Inserted++
		}
		result.Total++
	}
	return result, nil
}

var _ RecordsRepository = (*MemoryRecordsRepository)(nil)
