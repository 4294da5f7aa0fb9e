package casefiles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/domain/cases"
	"github.com/caseflow/caseflow/internal/platform/auth"
	"github.com/caseflow/caseflow/internal/platform/objectstore"
)

func bundleRequestRec(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/files/bundle", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, uuid.New())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Bundle(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return body["detail"]
}

func TestBundleHandler_MalformedBody(t *testing.T) {
	svc, _ := newBundleService(t, &stubRoles{level: 10}, &stubMetadata{}, objectstore.NewMemoryStore(), nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeDetail(t, rec) == "" {
		t.Error("expected a detail message")
	}
}

func TestBundleHandler_InvalidCaseID(t *testing.T) {
	svc, _ := newBundleService(t, &stubRoles{level: 10}, &stubMetadata{}, objectstore.NewMemoryStore(), nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, `{"case_ids":["not-a-uuid"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(decodeDetail(t, rec), "not-a-uuid") {
		t.Error("detail should name the offending id")
	}
}

func TestBundleHandler_EmptyList(t *testing.T) {
	svc, _ := newBundleService(t, &stubRoles{level: 10}, &stubMetadata{}, objectstore.NewMemoryStore(), nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, `{"case_ids":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBundleHandler_Forbidden(t *testing.T) {
	svc, _ := newBundleService(t, &stubRoles{level: 5}, &stubMetadata{}, objectstore.NewMemoryStore(), nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, `{"case_ids":["`+uuid.NewString()+`"]}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBundleHandler_NoCases(t *testing.T) {
	svc, _ := newBundleService(t, &stubRoles{level: 10}, &stubMetadata{}, objectstore.NewMemoryStore(), nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, `{"case_ids":["`+uuid.NewString()+`"]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBundleHandler_InternalError(t *testing.T) {
	roles := &stubRoles{err: context.DeadlineExceeded}
	svc, _ := newBundleService(t, roles, &stubMetadata{}, objectstore.NewMemoryStore(), nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, `{"case_ids":["`+uuid.NewString()+`"]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	// Internal detail stays generic, the cause goes to the log.
	if strings.Contains(decodeDetail(t, rec), "deadline") {
		t.Error("internal causes must not leak into the response body")
	}
}

func TestBundleHandler_SuccessStreamsArchiveWithCounts(t *testing.T) {
	owner := uuid.New()
	demo := "demo.txt"
	store := objectstore.NewMemoryStore()
	store.Put(owner.String(), demo, []byte("payload"))

	meta := &stubMetadata{records: []*cases.CaseFileRecord{
		fileRecord(owner, "Jane", "Doe", &demo, nil),
	}}
	svc, _ := newBundleService(t, &stubRoles{level: 10}, meta, store, nil)
	h := NewHandler(svc, zerolog.Nop())

	rec := bundleRequestRec(t, h, `{"case_ids":["`+uuid.NewString()+`"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	headers := map[string]string{
		"X-Downloaded-Files":   "1",
		"X-Download-Errors":    "0",
		"X-Cases-Processed":    "1",
		"X-Images-Compressed":  "0",
		"X-PDFs-Compressed":    "0",
		"X-Compression-Errors": "0",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	disp := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disp, "case_files.zip") {
		t.Errorf("Content-Disposition = %q", disp)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected archive bytes in the response body")
	}
}
