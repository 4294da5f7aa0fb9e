// Package compress holds the file compression primitives used by the bulk
// case-file pipeline. The pipeline treats these as swappable black boxes:
// each takes a source and destination path plus quality knobs and reports
// success or failure.
package compress

import (
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF quality presets, in decreasing fidelity order.
const (
	PDFPresetEbook  = "ebook"
	PDFPresetScreen = "screen"
)

// Image re-encodes the image at src into dst, downscaling to maxWidth when
// the source is wider and applying the given JPEG quality.
func Image(src, dst string, quality, maxWidth int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image %s: %w", src, err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := imaging.Save(img, dst, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save image %s: %w", dst, err)
	}
	return nil
}

// PDF optimizes the PDF at src into dst using the named quality preset.
func PDF(src, dst, preset string) error {
	cfg := model.NewDefaultConfiguration()
	if preset == PDFPresetScreen {
		cfg.ValidationMode = model.ValidationRelaxed
	}
	if err := api.OptimizeFile(src, dst, cfg); err != nil {
		return fmt.Errorf("optimize pdf %s (%s): %w", src, preset, err)
	}
	return nil
}

// PDFFallback is the conservative second strategy: relaxed validation and no
// preset-specific settings. Used when the primary pass rejects the document.
func PDFFallback(src, dst string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.OptimizeFile(src, dst, cfg); err != nil {
		return fmt.Errorf("optimize pdf fallback %s: %w", src, err)
	}
	return nil
}

// Copy duplicates src into dst verbatim. The guaranteed last resort of every
// compression strategy chain.
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
