package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plugilode/corpintel/internal/entity"
)

func TestPGXRecordsRepository_AddMapsUniqueViolation(t *testing.T) {
	repo := &PGXRecordsRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		},
	}}

	err := repo.Add(context.Background(), &entity.Record{ID: "CORP-0001", Name: "Acme"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID for a unique violation, got %v", err)
	}
}

func TestPGXRecordsRepository_AddPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &PGXRecordsRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, boom
		},
	}}

	err := repo.Add(context.Background(), &entity.Record{ID: "CORP-0001", Name: "Acme"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped pool error, got %v", err)
	}
	if errors.Is(err, ErrDuplicateID) {
		t.Fatalf("non-duplicate errors must not map to ErrDuplicateID")
	}
}
