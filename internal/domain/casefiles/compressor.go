package casefiles

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/platform/compress"
)

// Skip thresholds. Files below the active threshold are copied verbatim
// since re-encoding tiny files costs CPU for no gain.
const (
	smallFileThreshold           = 100 << 10 // 100 KiB
	aggressiveSmallFileThreshold = 50 << 10  // 50 KiB
)

// Image quality tiers, keyed by source size. Boundaries are exclusive:
// a file of exactly 10 MiB falls into the middle tier.
const (
	imageTierLarge  = 10 << 20
	imageTierMedium = 5 << 20

	pdfTierLarge = 20 << 20
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
}

// ModeSource reports whether aggressive compression is active. It is
// consulted on every call rather than cached so a mode change takes effect
// mid-run, between files.
type ModeSource interface {
	Aggressive() bool
}

// ModeSourceFunc adapts a plain function to ModeSource.
type ModeSourceFunc func() bool

func (f ModeSourceFunc) Aggressive() bool { return f() }

// StaticMode is a fixed-mode source for configurations without a dynamic
// toggle.
type StaticMode bool

func (m StaticMode) Aggressive() bool { return bool(m) }

// FileCompressor shrinks a local file in place on disk, classifying it by
// extension and never losing data: when every strategy fails the original
// bytes are still delivered via a verbatim copy.
type FileCompressor struct {
	mode ModeSource
	log  zerolog.Logger
}

func NewFileCompressor(mode ModeSource, log zerolog.Logger) *FileCompressor {
	return &FileCompressor{mode: mode, log: log}
}

// Compress writes a (possibly) smaller version of src to dst and reports
// success. On success exactly one file exists at dst. A false return means
// the caller must fall back to the original file itself.
func (fc *FileCompressor) Compress(src, dst string, stats *Stats) (ok bool) {
	// Compression is best-effort; a panic inside a codec must degrade to a
	// failed file, not take down the worker.
	defer func() {
		if r := recover(); r != nil {
			fc.log.Error().Interface("panic", r).Str("src", src).Msg("compression panicked")
			stats.AddError()
			ok = false
		}
	}()

	info, err := os.Stat(src)
	if err != nil {
		stats.AddError()
		return false
	}
	size := info.Size()

	threshold := int64(smallFileThreshold)
	if fc.mode.Aggressive() {
		threshold = aggressiveSmallFileThreshold
	}
	if size < threshold {
		return compress.Copy(src, dst) == nil
	}

	ext := strings.ToLower(filepath.Ext(src))
	switch {
	case imageExtensions[ext]:
		return fc.compressImage(src, dst, size, stats)
	case ext == ".pdf":
		return fc.compressPDF(src, dst, size, stats)
	default:
		return compress.Copy(src, dst) == nil
	}
}

func (fc *FileCompressor) compressImage(src, dst string, size int64, stats *Stats) bool {
	quality, maxWidth := imageTier(size)
	if err := compress.Image(src, dst, quality, maxWidth); err != nil {
		fc.log.Warn().Err(err).Str("src", src).Msg("image compression failed")
		stats.AddError()
		return false
	}
	stats.AddImage()
	return true
}

// imageTier maps a source size onto quality and max-width settings. Larger
// sources get squeezed harder.
func imageTier(size int64) (quality, maxWidth int) {
	switch {
	case size > imageTierLarge:
		return 60, 1200
	case size > imageTierMedium:
		return 70, 1400
	default:
		return 75, 1600
	}
}

// compressPDF tries the preset pass, then the conservative fallback, then a
// verbatim copy. Exhausting the chain counts as a compression error but the
// file still reaches the output.
func (fc *FileCompressor) compressPDF(src, dst string, size int64, stats *Stats) bool {
	preset := compress.PDFPresetEbook
	if size > pdfTierLarge {
		preset = compress.PDFPresetScreen
	}

	err := compress.PDF(src, dst, preset)
	if err == nil {
		stats.AddPDF()
		return true
	}
	fc.log.Warn().Err(err).Str("src", src).Msg("pdf compression failed, trying fallback")

	err = compress.PDFFallback(src, dst)
	if err == nil {
		stats.AddPDF()
		return true
	}
	fc.log.Warn().Err(err).Str("src", src).Msg("pdf fallback failed, copying original")

	stats.AddError()
	return compress.Copy(src, dst) == nil
}
