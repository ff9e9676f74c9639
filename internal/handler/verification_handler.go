package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/middleware"
	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/service"
)

// VerificationHandler exposes the per-field verification ledger.
type VerificationHandler struct {
	verification *service.VerificationService
}

// NewVerificationHandler creates a new handler instance.
func NewVerificationHandler(verification *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// Act handles POST /records/:id/verification requests.
func (h *VerificationHandler) Act(c echo.Context) error {
	var req dto.VerificationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	actor, _ := c.Get(middleware.ContextKeyUserEmail).(string)
	if actor == "" {
		return Error(c, http.StatusUnauthorized, "missing authenticated user")
	}

	status, err := h.verification.RecordAction(c.Request().Context(), c.Param("id"), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVerification):
			return Error(c, http.StatusBadRequest, "fieldName and a verify or flag action are required")
		case errors.Is(err, repository.ErrRecordNotFound):
			return Error(c, http.StatusNotFound, "record not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to record verification")
		}
	}
	return Success(c, http.StatusOK, "verification recorded", status)
}

// Status handles GET /records/:id/verification/:field requests.
func (h *VerificationHandler) Status(c echo.Context) error {
	status, err := h.verification.Status(c.Request().Context(), c.Param("id"), c.Param("field"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return Error(c, http.StatusNotFound, "record not found")
		case errors.Is(err, service.ErrStatusNotFound):
			return Error(c, http.StatusNotFound, "no verification history for field")
		default:
			return Error(c, http.StatusInternalServerError, "failed to load verification status")
		}
	}
	return Success(c, http.StatusOK, "verification status retrieved", status)
}

// Overview handles GET /records/:id/verification requests.
func (h *VerificationHandler) Overview(c echo.Context) error {
	overview, err := h.verification.Overview(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return Error(c, http.StatusNotFound, "record not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load verification overview")
	}
	return Success(c, http.StatusOK, "verification overview retrieved", overview)
}
