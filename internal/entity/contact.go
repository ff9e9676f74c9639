package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactRequest stores a validated inbound contact message.
type ContactRequest struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
