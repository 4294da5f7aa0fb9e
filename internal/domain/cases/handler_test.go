package cases

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caseflow/caseflow/internal/platform/objectstore"
)

func seedCase(t *testing.T, repo *mockCaseRepo) *Case {
	t.Helper()
	cs := &Case{
		OwnerID:      uuid.New(),
		PatientFirst: "Jane",
		PatientLast:  "Doe",
		Status:       "pending",
	}
	if err := repo.Create(context.Background(), cs); err != nil {
		t.Fatal(err)
	}
	return cs
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, content)
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadFile_StoresAndAttaches(t *testing.T) {
	repo := newMockCaseRepo()
	store := objectstore.NewMemoryStore()
	h := NewHandler(NewService(repo), store)
	cs := seedCase(t, repo)

	body, contentType := multipartBody(t, "demo.mp4", "video bytes")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "kind")
	c.SetParamValues(cs.ID.String(), FileKindDemo)

	if err := h.UploadFile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, _ := repo.GetByID(context.Background(), cs.ID)
	if got.DemoFile == nil || *got.DemoFile != "demo.mp4" {
		t.Errorf("demo slot = %v, want demo.mp4", got.DemoFile)
	}

	dest := t.TempDir() + "/demo.mp4"
	if err := store.Download(context.Background(), cs.OwnerID.String(), "demo.mp4", dest); err != nil {
		t.Errorf("uploaded object missing from store: %v", err)
	}
}

func TestUploadFile_RejectsUnknownKind(t *testing.T) {
	repo := newMockCaseRepo()
	h := NewHandler(NewService(repo), objectstore.NewMemoryStore())
	cs := seedCase(t, repo)

	body, contentType := multipartBody(t, "x.txt", "x")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "kind")
	c.SetParamValues(cs.ID.String(), "cover_letter")

	err := h.UploadFile(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestDeleteFile_ClearsSlotAndStore(t *testing.T) {
	repo := newMockCaseRepo()
	store := objectstore.NewMemoryStore()
	h := NewHandler(NewService(repo), store)
	cs := seedCase(t, repo)

	name := "note.pdf"
	cs.NoteFile = &name
	store.Put(cs.OwnerID.String(), name, []byte("pdf bytes"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "kind")
	c.SetParamValues(cs.ID.String(), FileKindNote)

	if err := h.DeleteFile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	got, _ := repo.GetByID(context.Background(), cs.ID)
	if got.NoteFile == nil || *got.NoteFile != "" {
		t.Errorf("note slot = %v, want cleared", got.NoteFile)
	}
	if err := store.Delete(context.Background(), cs.OwnerID.String(), name); err == nil {
		t.Error("object should already be gone from the store")
	}
}

func TestDeleteFile_NothingAttached(t *testing.T) {
	repo := newMockCaseRepo()
	h := NewHandler(NewService(repo), objectstore.NewMemoryStore())
	cs := seedCase(t, repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "kind")
	c.SetParamValues(cs.ID.String(), FileKindMisc)

	err := h.DeleteFile(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
