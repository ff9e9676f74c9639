package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
	"github.com/plugilode/corpintel/internal/repository"
)

// ErrStatusNotFound is returned when a field has no verification history yet.
var ErrStatusNotFound = errors.New("no verification status for field")

// ErrInvalidVerification is returned for malformed verification requests.
var ErrInvalidVerification = errors.New("invalid verification request")

// VerificationService manages the per-field verification ledger of a record.
type VerificationService struct {
	repo repository.RecordsRepository
	now  func() time.Time
}

// NewVerificationService creates a new instance of VerificationService.
func NewVerificationService(repo repository.RecordsRepository) *VerificationService {
	return &VerificationService{repo: repo, now: time.Now}
}

// RecordAction appends a verify or flag entry to the ledger of one field and
// returns the resulting field status. The actor is taken from the
// authenticated session, never from the request body.
func (s *VerificationService) RecordAction(ctx context.Context, recordID, actor string, req dto.VerificationRequest) (*entity.FieldVerification, error) {
	field := strings.TrimSpace(req.FieldName)
	if field == "" {
		return nil, ErrInvalidVerification
	}
	action := entity.VerificationAction(strings.ToLower(strings.TrimSpace(string(req.Action))))
	if !action.Valid() {
		return nil, ErrInvalidVerification
	}

	entry := entity.VerificationEntry{
		Timestamp:  s.now().UTC(),
		Action:     action,
		FieldName:  field,
		Info:       strings.TrimSpace(req.Info),
		VerifiedBy: actor,
	}
	return s.repo.AppendVerification(ctx, recordID, field, entry)
}

// Status returns the verification state of one field.
func (s *VerificationService) Status(ctx context.Context, recordID, field string) (*entity.FieldVerification, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	status, ok := rec.VerificationStatus[field]
	if !ok || status == nil {
		return nil, ErrStatusNotFound
	}
	return status.Clone(), nil
}

// Overview returns the full verification map of a record. The repository
// hands back snapshots, so the map is safe to return as-is.
func (s *VerificationService) Overview(ctx context.Context, recordID string) (map[string]*entity.FieldVerification, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.VerificationStatus == nil {
		return map[string]*entity.FieldVerification{}, nil
	}
	return rec.VerificationStatus, nil
}
