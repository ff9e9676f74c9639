package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/service"
)

// RecordsHandler exposes the record catalogue endpoints.
type RecordsHandler struct {
	records *service.RecordsService
	query   *service.QueryService
}

// NewRecordsHandler creates a new handler instance.
func NewRecordsHandler(records *service.RecordsService, query *service.QueryService) *RecordsHandler {
	return &RecordsHandler{records: records, query: query}
}

// List handles GET /records requests.
func (h *RecordsHandler) List(c echo.Context) error {
	page, err := parseIntParam(c.QueryParam("page"), 1)
	if err != nil {
		return Error(c, http.StatusBadRequest, "page must be an integer")
	}
	perPage, err := parseIntParam(c.QueryParam("per_page"), 20)
	if err != nil {
		return Error(c, http.StatusBadRequest, "per_page must be an integer")
	}

	filter := dto.RecordFilter{
		Q:        strings.TrimSpace(c.QueryParam("q")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Country:  strings.TrimSpace(c.QueryParam("country")),
		City:     strings.TrimSpace(c.QueryParam("city")),
		Page:     page,
		PerPage:  perPage,
	}

	records, err := h.records.ListRecords(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list records")
	}
	return Success(c, http.StatusOK, "records retrieved", records)
}

// Search handles POST /records/search requests with a free-form query.
func (h *RecordsHandler) Search(c echo.Context) error {
	var req dto.QuerySearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	filter, err := h.query.Parse(req)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	records, err := h.records.ListRecords(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to search records")
	}

	resp := dto.QuerySearchResponse{
		Query:   req.Query,
		Term:    filter.Q,
		City:    filter.City,
		Country: filter.Country,
		Results: records,
	}
	return Success(c, http.StatusOK, "records searched", resp)
}

// Get handles GET /records/:id requests.
func (h *RecordsHandler) Get(c echo.Context) error {
	record, err := h.records.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return Error(c, http.StatusNotFound, "record not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load record")
	}
	return Success(c, http.StatusOK, "record retrieved", record)
}

// Create handles POST /records requests.
func (h *RecordsHandler) Create(c echo.Context) error {
	var req dto.CreateRecordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	record, err := h.records.CreateRecord(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return Error(c, http.StatusConflict, "record id already exists")
		}
		return Error(c, http.StatusBadRequest, err.Error())
	}
	return Success(c, http.StatusCreated, "record created", record)
}

// Update handles PATCH /records/:id requests.
func (h *RecordsHandler) Update(c echo.Context) error {
	var patch dto.RecordPatch
	if err := c.Bind(&patch); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	record, err := h.records.UpdateRecord(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return Error(c, http.StatusNotFound, "record not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to update record")
	}
	return Success(c, http.StatusOK, "record updated", record)
}

// Export handles GET /records/:id/export requests and streams the record as
// a plain-text dossier download.
func (h *RecordsHandler) Export(c echo.Context) error {
	record, err := h.records.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return Error(c, http.StatusNotFound, "record not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load record")
	}

	content, err := service.ExportRecordText(*record)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to render export")
	}

	filename := service.ExportFilename(record.ID, time.Now().UTC())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// parseIntParam returns the fallback for an absent parameter and an error for
// a malformed one. Malformed input must surface as a 400, not a silent default.
func parseIntParam(input string, fallback int) (int, error) {
	if input == "" {
		return fallback, nil
	}
	return strconv.Atoi(input)
}
