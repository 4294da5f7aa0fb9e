package casefiles

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func zipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	entries := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(data)
	}
	return entries
}

func TestAssemble_PreservesCaseLayout(t *testing.T) {
	workRoot := t.TempDir()
	caseDir := filepath.Join(workRoot, "case-a_John_Doe")
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		t.Fatal(err)
	}
	fileA := filepath.Join(caseDir, "demo.txt")
	os.WriteFile(fileA, []byte("demo content"), 0o644)
	fileB := filepath.Join(caseDir, "note.txt")
	os.WriteFile(fileB, []byte("note content"), 0o644)

	result := &PipelineResult{DownloadedFiles: []string{fileA, fileB}}
	archivePath := filepath.Join(t.TempDir(), "bundle.zip")

	a := NewArchiveAssembler(zerolog.Nop())
	if err := a.Assemble(result, workRoot, archivePath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := zipEntries(t, archivePath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries["case-a_John_Doe/demo.txt"] != "demo content" {
		t.Error("demo.txt missing or wrong content under its case directory")
	}
	if entries["case-a_John_Doe/note.txt"] != "note content" {
		t.Error("note.txt missing or wrong content under its case directory")
	}
}

func TestAssemble_WritesErrorManifest(t *testing.T) {
	workRoot := t.TempDir()
	file := filepath.Join(workRoot, "case-a", "demo.txt")
	os.MkdirAll(filepath.Dir(file), 0o755)
	os.WriteFile(file, []byte("x"), 0o644)

	result := &PipelineResult{
		DownloadedFiles: []string{file},
		DownloadErrors:  []string{"Failed to download note file for case B: note.txt"},
	}
	archivePath := filepath.Join(t.TempDir(), "bundle.zip")

	a := NewArchiveAssembler(zerolog.Nop())
	if err := a.Assemble(result, workRoot, archivePath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := zipEntries(t, archivePath)
	manifest, ok := entries[errorManifestName]
	if !ok {
		t.Fatal("expected errors.txt in the archive")
	}
	if !strings.Contains(manifest, "case B") {
		t.Errorf("manifest must carry the error lines, got %q", manifest)
	}
}

func TestAssemble_SkipsUnreadableFilesAndContinues(t *testing.T) {
	workRoot := t.TempDir()
	good := filepath.Join(workRoot, "case-a", "demo.txt")
	os.MkdirAll(filepath.Dir(good), 0o755)
	os.WriteFile(good, []byte("x"), 0o644)
	missing := filepath.Join(workRoot, "case-b", "gone.txt")

	result := &PipelineResult{DownloadedFiles: []string{missing, good}}
	archivePath := filepath.Join(t.TempDir(), "bundle.zip")

	a := NewArchiveAssembler(zerolog.Nop())
	if err := a.Assemble(result, workRoot, archivePath); err != nil {
		t.Fatalf("partial archive must still succeed, got %v", err)
	}

	entries := zipEntries(t, archivePath)
	if _, ok := entries["case-a/demo.txt"]; !ok {
		t.Error("surviving file missing from archive")
	}
	if len(result.DownloadErrors) != 1 {
		t.Errorf("expected the archive failure to be recorded, got %v", result.DownloadErrors)
	}
	// The manifest rides along since an error was recorded.
	if _, ok := entries[errorManifestName]; !ok {
		t.Error("expected errors.txt after an archive write failure")
	}
}

func TestAssemble_AllWritesFailIsNoFiles(t *testing.T) {
	workRoot := t.TempDir()
	result := &PipelineResult{DownloadedFiles: []string{
		filepath.Join(workRoot, "case-a", "gone1.txt"),
		filepath.Join(workRoot, "case-b", "gone2.txt"),
	}}
	archivePath := filepath.Join(t.TempDir(), "bundle.zip")

	a := NewArchiveAssembler(zerolog.Nop())
	if err := a.Assemble(result, workRoot, archivePath); err != ErrNoFiles {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Error("an empty archive must not be left behind")
	}
}

func TestAssemble_EmptyInputIsNoFiles(t *testing.T) {
	a := NewArchiveAssembler(zerolog.Nop())
	err := a.Assemble(&PipelineResult{}, t.TempDir(), filepath.Join(t.TempDir(), "bundle.zip"))
	if err != ErrNoFiles {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}
