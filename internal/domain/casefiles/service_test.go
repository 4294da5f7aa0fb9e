package casefiles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/domain/cases"
	"github.com/caseflow/caseflow/internal/platform/objectstore"
	"github.com/caseflow/caseflow/internal/platform/telemetry"
)

type stubRoles struct {
	level int
	err   error
	calls int
}

func (s *stubRoles) RoleLevel(context.Context, uuid.UUID) (int, error) {
	s.calls++
	return s.level, s.err
}

type stubMetadata struct {
	records []*cases.CaseFileRecord
	err     error
	calls   int
}

func (s *stubMetadata) FetchActiveByIDs(context.Context, []uuid.UUID) ([]*cases.CaseFileRecord, error) {
	s.calls++
	return s.records, s.err
}

func newBundleService(t *testing.T, roles *stubRoles, meta *stubMetadata, store objectstore.Store, metrics *telemetry.Registry) (*Service, string) {
	t.Helper()
	settings := defaultSettings()
	settings.WorkDir = t.TempDir()
	svc := NewService(roles, meta, store, StaticMode(false), settings, metrics, zerolog.Nop())
	return svc, settings.WorkDir
}

func fileRecord(owner uuid.UUID, first, last string, demo, note *string) *cases.CaseFileRecord {
	return &cases.CaseFileRecord{
		CaseID:       uuid.New(),
		OwnerID:      owner,
		DemoFile:     demo,
		NoteFile:     note,
		PatientFirst: first,
		PatientLast:  last,
	}
}

func TestBundle_EmptyInputRejectedBeforeAnyCalls(t *testing.T) {
	roles := &stubRoles{level: 10}
	meta := &stubMetadata{}
	svc, _ := newBundleService(t, roles, meta, objectstore.NewMemoryStore(), nil)

	_, err := svc.Bundle(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if roles.calls != 0 || meta.calls != 0 {
		t.Errorf("validation must run first: roles=%d metadata=%d calls", roles.calls, meta.calls)
	}
}

func TestBundle_BelowAdminForbidden(t *testing.T) {
	roles := &stubRoles{level: 7}
	meta := &stubMetadata{}
	svc, _ := newBundleService(t, roles, meta, objectstore.NewMemoryStore(), nil)

	_, err := svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if meta.calls != 0 {
		t.Error("metadata must not be fetched for a forbidden caller")
	}
}

func TestBundle_NoMatchingCases(t *testing.T) {
	roles := &stubRoles{level: 10}
	meta := &stubMetadata{}
	svc, _ := newBundleService(t, roles, meta, objectstore.NewMemoryStore(), nil)

	_, err := svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if !errors.Is(err, ErrNoCases) {
		t.Fatalf("expected ErrNoCases, got %v", err)
	}
}

func TestBundle_SingleCaseSuccess(t *testing.T) {
	owner := uuid.New()
	demo := "demo.txt"
	store := objectstore.NewMemoryStore()
	store.Put(owner.String(), demo, []byte("demo payload"))

	roles := &stubRoles{level: 10}
	meta := &stubMetadata{records: []*cases.CaseFileRecord{
		fileRecord(owner, "Jane", "Doe", &demo, nil),
	}}
	svc, workDir := newBundleService(t, roles, meta, store, nil)

	out, err := svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(out.ArchivePath)

	if out.DownloadedFiles != 1 || out.DownloadErrors != 0 || out.CasesProcessed != 1 {
		t.Errorf("counts = %d files, %d errors, %d cases", out.DownloadedFiles, out.DownloadErrors, out.CasesProcessed)
	}
	if _, err := os.Stat(out.ArchivePath); err != nil {
		t.Fatalf("archive must exist for the handler to stream: %v", err)
	}
	if filepath.Dir(out.ArchivePath) != workDir {
		t.Errorf("archive must sit directly in %s, got %s", workDir, out.ArchivePath)
	}

	// The per-request working directory is gone, only the archive remains.
	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("working directory %s was not cleaned up", e.Name())
		}
	}
}

func TestBundle_PartialFailureStillDelivers(t *testing.T) {
	ownerA := uuid.New()
	ownerB := uuid.New()
	demoA := "present.txt"
	demoB := "missing.txt"
	store := objectstore.NewMemoryStore()
	store.Put(ownerA.String(), demoA, []byte("payload"))

	roles := &stubRoles{level: 10}
	meta := &stubMetadata{records: []*cases.CaseFileRecord{
		fileRecord(ownerA, "Ann", "Able", &demoA, nil),
		fileRecord(ownerB, "Bob", "Baker", &demoB, nil),
	}}
	svc, _ := newBundleService(t, roles, meta, store, nil)

	out, err := svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New(), uuid.New()})
	if err != nil {
		t.Fatalf("partial success must not error: %v", err)
	}
	defer os.Remove(out.ArchivePath)

	if out.DownloadedFiles != 1 {
		t.Errorf("expected 1 downloaded file, got %d", out.DownloadedFiles)
	}
	if out.DownloadErrors != 1 {
		t.Errorf("expected 1 download error, got %d", out.DownloadErrors)
	}
	if out.CasesProcessed != 2 {
		t.Errorf("both cases ran, got %d", out.CasesProcessed)
	}
}

func TestBundle_AllDownloadsFailIsNoFiles(t *testing.T) {
	owner := uuid.New()
	demo := "gone.txt"
	roles := &stubRoles{level: 10}
	meta := &stubMetadata{records: []*cases.CaseFileRecord{
		fileRecord(owner, "Jane", "Doe", &demo, nil),
	}}
	svc, workDir := newBundleService(t, roles, meta, objectstore.NewMemoryStore(), nil)

	_, err := svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
	entries, _ := os.ReadDir(workDir)
	if len(entries) != 0 {
		t.Errorf("nothing should survive a failed run, found %d entries", len(entries))
	}
}

func TestBundle_RecordsMetricsOncePerOutcome(t *testing.T) {
	metrics := telemetry.NewRegistry()
	roles := &stubRoles{level: 10}
	meta := &stubMetadata{}
	svc, _ := newBundleService(t, roles, meta, objectstore.NewMemoryStore(), metrics)

	svc.Bundle(context.Background(), uuid.New(), nil)
	if got := metrics.CounterValue("bundle_requests_total", map[string]string{"outcome": "invalid"}); got != 1 {
		t.Errorf("invalid outcome counted %v times", got)
	}

	svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if got := metrics.CounterValue("bundle_requests_total", map[string]string{"outcome": "not_found"}); got != 1 {
		t.Errorf("not_found outcome counted %v times", got)
	}
}

func TestBundle_ArchiveNameCarriesTimestamp(t *testing.T) {
	owner := uuid.New()
	demo := "demo.txt"
	store := objectstore.NewMemoryStore()
	store.Put(owner.String(), demo, []byte("x"))

	roles := &stubRoles{level: 10}
	meta := &stubMetadata{records: []*cases.CaseFileRecord{
		fileRecord(owner, "Jane", "Doe", &demo, nil),
	}}
	svc, _ := newBundleService(t, roles, meta, store, nil)

	out, err := svc.Bundle(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(out.ArchivePath)

	base := filepath.Base(out.ArchivePath)
	if !strings.HasPrefix(base, "case_files_") || !strings.HasSuffix(base, ".zip") {
		t.Errorf("unexpected archive name %s", base)
	}
}
