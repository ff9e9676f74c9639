package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/service"
)

// ContactHandler receives contact form submissions.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler creates a new handler instance.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit handles POST /contact requests.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	contact, err := h.contacts.Submit(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContact) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to store contact request")
	}
	return Success(c, http.StatusCreated, "contact request received", contact)
}

// List handles GET /admin/contacts requests.
func (h *ContactHandler) List(c echo.Context) error {
	contacts, err := h.contacts.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list contact requests")
	}
	return Success(c, http.StatusOK, "contact requests retrieved", contacts)
}
