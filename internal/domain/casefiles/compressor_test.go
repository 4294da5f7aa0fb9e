package casefiles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImageTierBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		quality  int
		maxWidth int
	}{
		{"just over 10 MiB", 10<<20 + 1, 60, 1200},
		{"exactly 10 MiB", 10 << 20, 70, 1400},
		{"just over 5 MiB", 5<<20 + 1, 70, 1400},
		{"exactly 5 MiB", 5 << 20, 75, 1600},
		{"small", 1 << 20, 75, 1600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, w := imageTier(tt.size)
			if q != tt.quality || w != tt.maxWidth {
				t.Errorf("size %d: got quality %d width %d, want %d/%d", tt.size, q, w, tt.quality, tt.maxWidth)
			}
		})
	}
}

func TestCompressSmallFileIdempotent(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCompressor(StaticMode(false), zerolog.Nop())
	stats := &Stats{}

	src := writeFile(t, dir, "tiny.jpg", 10<<10)
	original, _ := os.ReadFile(src)

	dst1 := filepath.Join(dir, "out1.jpg")
	if !fc.Compress(src, dst1, stats) {
		t.Fatal("expected success on small file")
	}
	dst2 := filepath.Join(dir, "out2.jpg")
	if !fc.Compress(src, dst2, stats) {
		t.Fatal("expected success on second run")
	}

	got1, _ := os.ReadFile(dst1)
	got2, _ := os.ReadFile(dst2)
	if !bytes.Equal(got1, original) || !bytes.Equal(got2, original) {
		t.Error("small files must be copied byte for byte")
	}

	img, pdf, errs := stats.Snapshot()
	if img != 0 || pdf != 0 || errs != 0 {
		t.Errorf("small-file copies must not touch stats, got %d/%d/%d", img, pdf, errs)
	}
}

func TestCompressUnknownExtensionCopies(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCompressor(StaticMode(false), zerolog.Nop())
	stats := &Stats{}

	src := writeFile(t, dir, "report.docx", 300<<10)
	dst := filepath.Join(dir, "out.docx")
	if !fc.Compress(src, dst, stats) {
		t.Fatal("expected success on unknown extension")
	}

	original, _ := os.ReadFile(src)
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, original) {
		t.Error("unknown extensions must be copied verbatim")
	}
	if _, _, errs := stats.Snapshot(); errs != 0 {
		t.Error("verbatim copy must not count as an error")
	}
}

func TestCompressCorruptImageCountsError(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCompressor(StaticMode(false), zerolog.Nop())
	stats := &Stats{}

	// 300 KiB of non-JPEG bytes: the decoder must reject it.
	src := writeFile(t, dir, "broken.jpg", 300<<10)
	dst := filepath.Join(dir, "out.jpg")
	if fc.Compress(src, dst, stats) {
		t.Fatal("expected failure on corrupt image")
	}
	img, _, errs := stats.Snapshot()
	if img != 0 || errs != 1 {
		t.Errorf("expected 0 images / 1 error, got %d/%d", img, errs)
	}
}

func TestCompressMissingSource(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCompressor(StaticMode(false), zerolog.Nop())
	stats := &Stats{}

	if fc.Compress(filepath.Join(dir, "absent.jpg"), filepath.Join(dir, "out.jpg"), stats) {
		t.Fatal("expected failure on missing source")
	}
	if _, _, errs := stats.Snapshot(); errs != 1 {
		t.Errorf("expected 1 error, got %d", errs)
	}
}

// toggleMode flips between calls so the per-call mode lookup is observable.
type toggleMode struct{ aggressive bool }

func (m *toggleMode) Aggressive() bool { return m.aggressive }

func TestCompressModeConsultedPerCall(t *testing.T) {
	dir := t.TempDir()
	mode := &toggleMode{}
	fc := NewFileCompressor(mode, zerolog.Nop())
	stats := &Stats{}

	// 60 KiB sits between the aggressive (50 KiB) and standard (100 KiB)
	// skip thresholds.
	src := writeFile(t, dir, "between.jpg", 60<<10)

	// Standard mode: below threshold, copied verbatim.
	if !fc.Compress(src, filepath.Join(dir, "out1.jpg"), stats) {
		t.Fatal("expected verbatim copy in standard mode")
	}
	if _, _, errs := stats.Snapshot(); errs != 0 {
		t.Fatal("standard-mode copy must not record an error")
	}

	// Aggressive mode: over threshold, the corrupt image now hits the
	// decoder and fails. The mode change is picked up without a new
	// compressor.
	mode.aggressive = true
	if fc.Compress(src, filepath.Join(dir, "out2.jpg"), stats) {
		t.Fatal("expected compression attempt (and failure) in aggressive mode")
	}
	if _, _, errs := stats.Snapshot(); errs != 1 {
		t.Errorf("expected 1 error after aggressive attempt, got %d", errs)
	}
}
