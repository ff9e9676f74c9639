package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/plugilode/corpintel/internal/entity"
)

// ContactsRepository persists inbound contact requests.
type ContactsRepository interface {
	Add(ctx context.Context, contact *entity.ContactRequest) error
	GetAll(ctx context.Context) ([]entity.ContactRequest, error)
}

// PGXContactsRepository stores contact requests in Postgres.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository creates a new instance of PGXContactsRepository.
func NewPGXContactsRepository(pool pgxPool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

// Add inserts a contact request.
func (r *PGXContactsRepository) Add(ctx context.Context, contact *entity.ContactRequest) error {
	query := `
		INSERT INTO contact_requests (id, name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		textOrNil(contact.Phone),
		contact.Message,
		contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact request: %w", err)
	}
	return nil
}

// GetAll returns every stored contact request, newest first.
func (r *PGXContactsRepository) GetAll(ctx context.Context) ([]entity.ContactRequest, error) {
	query := `
		SELECT id, name, email, COALESCE(phone, ''), message, created_at
		FROM contact_requests
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query contact requests: %w", err)
	}
	defer rows.Close()

	var contacts []entity.ContactRequest
	for rows.Next() {
		var contact entity.ContactRequest
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Phone, &contact.Message, &contact.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact request: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact requests: %w", err)
	}
	return contacts, nil
}

// MemoryContactsRepository keeps contact requests in memory for DB-less runs.
type MemoryContactsRepository struct {
	mu       sync.RWMutex
	contacts []entity.ContactRequest
}

// NewMemoryContactsRepository creates an empty in-memory store.
func NewMemoryContactsRepository() *MemoryContactsRepository {
	return &MemoryContactsRepository{}
}

// Add appends a contact request.
func (r *MemoryContactsRepository) Add(_ context.Context, contact *entity.ContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, *contact)
	return nil
}

// GetAll returns every stored contact request, newest first.
func (r *MemoryContactsRepository) GetAll(context.Context) ([]entity.ContactRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.ContactRequest, len(r.contacts))
	for i, contact := range r.contacts {
		out[len(r.contacts)-1-i] = contact
	}
	return out, nil
}
