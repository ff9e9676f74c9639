package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/dto"
	"github.com/plugilode/corpintel/internal/entity"
	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/service"
)

// stubRecordsRepository lets each test override just the calls it cares about.
type stubRecordsRepository struct {
	getAll     func(ctx context.Context) ([]entity.Record, error)
	getByID    func(ctx context.Context, id string) (*entity.Record, error)
	add        func(ctx context.Context, record *entity.Record) error
	update     func(ctx context.Context, id string, patch dto.RecordPatch) (*entity.Record, error)
	nextID     func(ctx context.Context) (string, error)
	appendVer  func(ctx context.Context, recordID, fieldName string, entry entity.VerificationEntry) (*entity.FieldVerification, error)
	bulkImport func(ctx context.Context, records []entity.Record) (repository.BulkImportResult, error)
}

func (s *stubRecordsRepository) GetAll(ctx context.Context) ([]entity.Record, error) {
	if s.getAll != nil {
		return s.getAll(ctx)
	}
	return nil, nil
}

func (s *stubRecordsRepository) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, repository.ErrRecordNotFound
}

func (s *stubRecordsRepository) Add(ctx context.Context, record *entity.Record) error {
	if s.add != nil {
		return s.add(ctx, record)
	}
	return nil
}

func (s *stubRecordsRepository) Update(ctx context.Context, id string, patch dto.RecordPatch) (*entity.Record, error) {
	if s.update != nil {
		return s.update(ctx, id, patch)
	}
	return nil, repository.ErrRecordNotFound
}

func (s *stubRecordsRepository) NextID(ctx context.Context) (string, error) {
	if s.nextID != nil {
		return s.nextID(ctx)
	}
	return "CORP-0001", nil
}

func (s *stubRecordsRepository) AppendVerification(ctx context.Context, recordID, fieldName string, entry entity.VerificationEntry) (*entity.FieldVerification, error) {
	if s.appendVer != nil {
		return s.appendVer(ctx, recordID, fieldName, entry)
	}
	return nil, repository.ErrRecordNotFound
}

func (s *stubRecordsRepository) BulkImport(ctx context.Context, records []entity.Record) (repository.BulkImportResult, error) {
	if s.bulkImport != nil {
		return s.bulkImport(ctx, records)
	}
	return repository.BulkImportResult{}, nil
}

func newRecordsHandler(repo repository.RecordsRepository) *RecordsHandler {
	return NewRecordsHandler(service.NewRecordsService(repo), service.NewQueryService(""))
}

func catalogue() []entity.Record {
	return []entity.Record{
		{ID: "CORP-0001", Name: "Tesla", Country: "USA", City: "Austin", Categories: []string{"AUTOMOTIVE"}},
		{ID: "CORP-0002", Name: "SAP", Country: "Germany", City: "Walldorf", Categories: []string{"TECH", "SAAS"}},
	}
}

func TestRecordsHandler_List(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/records?country=germany", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/records")

	handler := newRecordsHandler(&stubRecordsRepository{
		getAll: func(context.Context) ([]entity.Record, error) {
			return catalogue(), nil
		},
	})

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string          `json:"status"`
		Data   []entity.Record `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "CORP-0002" {
		t.Fatalf("expected only the German record, got %+v", resp.Data)
	}
}

func TestRecordsHandler_ListRejectsMalformedPagination(t *testing.T) {
	e := echo.New()
	handler := newRecordsHandler(&stubRecordsRepository{
		getAll: func(context.Context) ([]entity.Record, error) {
			return catalogue(), nil
		},
	})

	for _, target := range []string{"/records?page=abc", "/records?per_page=two"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/records")

		_ = handler.List(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", target, rec.Code)
		}
	}
}

func TestRecordsHandler_GetNotFound(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/records/CORP-9999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/records/:id")
	c.SetParamNames("id")
	c.SetParamValues("CORP-9999")

	handler := newRecordsHandler(&stubRecordsRepository{})
	_ = handler.Get(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecordsHandler_Create(t *testing.T) {
	e := echo.New()
	body := `{"name":"Acme GmbH","country":"Germany","category":["SAAS"]}`
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var added *entity.Record
	handler := newRecordsHandler(&stubRecordsRepository{
		nextID: func(context.Context) (string, error) { return "CORP-0003", nil },
		add: func(_ context.Context, record *entity.Record) error {
			added = record
			return nil
		},
	})

	if err := handler.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if added == nil || added.ID != "CORP-0003" || added.Subject != "ACME GMBH" {
		t.Fatalf("record not created with defaults: %+v", added)
	}
}

func TestRecordsHandler_CreateRejectsBlankName(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(`{"name":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := newRecordsHandler(&stubRecordsRepository{})
	_ = handler.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecordsHandler_Update(t *testing.T) {
	e := echo.New()
	body := `{"ceo":"New CEO"}`
	req := httptest.NewRequest(http.MethodPatch, "/records/CORP-0001", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/records/:id")
	c.SetParamNames("id")
	c.SetParamValues("CORP-0001")

	handler := newRecordsHandler(&stubRecordsRepository{
		update: func(_ context.Context, id string, patch dto.RecordPatch) (*entity.Record, error) {
			if id != "CORP-0001" || patch.CEO == nil || *patch.CEO != "New CEO" {
				t.Fatalf("unexpected patch: id=%s patch=%+v", id, patch)
			}
			return &entity.Record{ID: id, CEO: *patch.CEO}, nil
		},
	})

	if err := handler.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRecordsHandler_Search(t *testing.T) {
	e := echo.New()
	body := `{"query":"saas companies in germany"}`
	req := httptest.NewRequest(http.MethodPost, "/records/search", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := newRecordsHandler(&stubRecordsRepository{
		getAll: func(context.Context) ([]entity.Record, error) {
			return catalogue(), nil
		},
	})

	if err := handler.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data dto.QuerySearchResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Country != "Germany" || resp.Data.Term != "saas" {
		t.Fatalf("query not interpreted: %+v", resp.Data)
	}
}

func TestRecordsHandler_Export(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/records/CORP-0001/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/records/:id/export")
	c.SetParamNames("id")
	c.SetParamValues("CORP-0001")

	handler := newRecordsHandler(&stubRecordsRepository{
		getByID: func(_ context.Context, id string) (*entity.Record, error) {
			return &entity.Record{ID: id, Name: "Tesla"}, nil
		},
	})

	if err := handler.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NAME: Tesla") {
		t.Fatalf("export body missing fields:\n%s", rec.Body.String())
	}
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "CORP-0001_") || !strings.Contains(disposition, ".txt") {
		t.Fatalf("unexpected content disposition: %s", disposition)
	}
}
