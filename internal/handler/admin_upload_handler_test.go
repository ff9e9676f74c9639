package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/plugilode/corpintel/internal/entity"
	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/service"
)

func newAdminUploadHandler(repo repository.RecordsRepository) *AdminUploadHandler {
	return NewAdminUploadHandler(service.NewRecordsService(repo))
}

func TestAdminUploadHandler_MissingFile(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/upload-csv", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := newAdminUploadHandler(&stubRecordsRepository{})
	_ = handler.UploadCSV(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminUploadHandler_InvalidCSV(t *testing.T) {
	e := echo.New()
	req, rec := multipartRequest(t, "file", "test.csv", "name,city\nAcme,Bonn\n")
	c := e.NewContext(req, rec)

	handler := newAdminUploadHandler(&stubRecordsRepository{})
	_ = handler.UploadCSV(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid csv, got %d", rec.Code)
	}
}

func TestAdminUploadHandler_RepositoryError(t *testing.T) {
	e := echo.New()
	req, rec := multipartRequest(t, "file", "test.csv", validCSV())
	c := e.NewContext(req, rec)

	handler := newAdminUploadHandler(&stubRecordsRepository{
		bulkImport: func(ctx context.Context, records []entity.Record) (repository.BulkImportResult, error) {
			return repository.BulkImportResult{}, context.DeadlineExceeded
		},
	})

	_ = handler.UploadCSV(c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAdminUploadHandler_Success(t *testing.T) {
	e := echo.New()
	req, rec := multipartRequest(t, "file", "test.csv", validCSV())
	c := e.NewContext(req, rec)

	handler := newAdminUploadHandler(&stubRecordsRepository{
		bulkImport: func(ctx context.Context, records []entity.Record) (repository.BulkImportResult, error) {
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
			return repository.BulkImportResult{Inserted: 1, Total: 1}, nil
		},
	})

	_ = handler.UploadCSV(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func multipartRequest(t *testing.T, field, filename, content string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-csv", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func validCSV() string {
	return "id,name,subject,description,ceo,address,city,country,categories,tags\n" +
		"CORP-0001,Acme,ACME,Widget maker,Jane Doe,Main St 1,Bonn,Germany,TECH,WIDGETS\n"
}
