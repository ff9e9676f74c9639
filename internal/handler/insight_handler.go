package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/service"
	"github.com/plugilode/corpintel/internal/service/insight"
)

// InsightHandler serves the analytical views derived from the catalogue.
type InsightHandler struct {
	records *service.RecordsService
}

// NewInsightHandler creates a new handler instance.
func NewInsightHandler(records *service.RecordsService) *InsightHandler {
	return &InsightHandler{records: records}
}

// Similar handles GET /records/:id/similar requests. The optional k query
// parameter bounds the result count.
func (h *InsightHandler) Similar(c echo.Context) error {
	ctx := c.Request().Context()

	target, err := h.records.GetRecord(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return Error(c, http.StatusNotFound, "record not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load record")
	}

	pool, err := h.records.Snapshot(ctx)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load catalogue")
	}

	k, err := parseIntParam(c.QueryParam("k"), insight.DefaultSimilarLimit)
	if err != nil {
		return Error(c, http.StatusBadRequest, "k must be a positive integer")
	}
	scored, err := insight.Similar(*target, pool, k)
	if err != nil {
		if errors.Is(err, insight.ErrInvalidLimit) {
			return Error(c, http.StatusBadRequest, "k must be a positive integer")
		}
		return Error(c, http.StatusInternalServerError, "failed to rank records")
	}
	return Success(c, http.StatusOK, "similar records retrieved", scored)
}

// Anomalies handles GET /records/:id/anomalies requests.
func (h *InsightHandler) Anomalies(c echo.Context) error {
	record, err := h.records.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return Error(c, http.StatusNotFound, "record not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load record")
	}

	findings := insight.RuleBasedAnomalyCheck(*record)
	return Success(c, http.StatusOK, "anomaly check completed", map[string]any{
		"recordId": record.ID,
		"findings": findings,
	})
}

// Trends handles GET /trends requests.
func (h *InsightHandler) Trends(c echo.Context) error {
	pool, err := h.records.Snapshot(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load catalogue")
	}
	return Success(c, http.StatusOK, "market trends computed", insight.MarketTrends(pool))
}
