package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
	"github.com/plugilode/corpintel/internal/repository"
)

// ErrInvalidContact is returned when a contact submission fails validation.
var ErrInvalidContact = errors.New("invalid contact request")

// ContactService handles inbound contact form submissions.
type ContactService struct {
	repo      repository.ContactsRepository
	validator *ContactValidator
	now       func() time.Time
}

// NewContactService creates a new instance of ContactService.
func NewContactService(repo repository.ContactsRepository, validator *ContactValidator) *ContactService {
	return &ContactService{repo: repo, validator: validator, now: time.Now}
}

// Submit validates and stores a contact request. The email must pass the
// deliverability checks; the phone is optional but must normalize when given.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (*entity.ContactRequest, error) {
	name := strings.TrimSpace(req.Name)
	message := strings.TrimSpace(req.Message)
	if name == "" || message == "" {
		return nil, fmt.Errorf("%w: name and message are required", ErrInvalidContact)
	}

	email, err := s.validator.ValidateEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContact, err)
	}

	phone := ""
	if strings.TrimSpace(req.Phone) != "" {
		phone, err = s.validator.NormalizePhone(req.Phone)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidContact, err)
		}
	}

	contact := &entity.ContactRequest{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Add(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// List returns stored contact requests for the admin view.
func (s *ContactService) List(ctx context.Context) ([]entity.ContactRequest, error) {
	return s.repo.GetAll(ctx)
}
