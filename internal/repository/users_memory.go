package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plugilode/corpintel/internal/entity"
)

// MemoryUsersRepository implements UsersRepository in memory for DB-less runs.
type MemoryUsersRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entity.User
}

// NewMemoryUsersRepository creates an empty in-memory user store.
func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{users: make(map[uuid.UUID]entity.User)}
}

// FindByEmail fetches a user by email if present.
func (r *MemoryUsersRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			dup := user
			return &dup, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByID retrieves a user by identifier.
func (r *MemoryUsersRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	dup := user
	return &dup, nil
}

// Create inserts a new user.
func (r *MemoryUsersRepository) Create(_ context.Context, email, passwordHash, role string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return nil, fmt.Errorf("%w: %s", ErrEmailDuplicate, email)
		}
	}

	now := time.Now().UTC()
	user := entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[user.ID] = user
	dup := user
	return &dup, nil
}

// List returns all users ordered by creation date (desc).
func (r *MemoryUsersRepository) List(context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// Update patches user attributes.
func (r *MemoryUsersRepository) Update(_ context.Context, id uuid.UUID, email, passwordHash, role *string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if email != nil {
		for otherID, other := range r.users {
			if otherID != id && strings.EqualFold(other.Email, *email) {
				return nil, fmt.Errorf("%w: %s", ErrEmailDuplicate, *email)
			}
		}
		user.Email = *email
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	if role != nil {
		user.Role = *role
	}
	user.UpdatedAt = time.Now().UTC()

	r.users[id] = user
	dup := user
	return &dup, nil
}

// Delete removes a user by id.
func (r *MemoryUsersRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
