package casefiles

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog"
)

// ErrNoFiles signals that nothing made it into the archive, which the API
// surfaces as not found.
var ErrNoFiles = errors.New("no files were produced")

// errorManifestName is the plain-text error listing embedded in the archive
// when any per-file failures occurred.
const errorManifestName = "errors.txt"

// flate level 5 trades a little ratio for much less CPU than the maximum
// setting; these archives are built inline with the request.
const archiveCompressionLevel = 5

// ArchiveAssembler writes the single downloadable artifact. It runs
// single-threaded after all batches have drained, so nothing else contends
// for the archive file.
type ArchiveAssembler struct {
	log zerolog.Logger
}

func NewArchiveAssembler(log zerolog.Logger) *ArchiveAssembler {
	return &ArchiveAssembler{log: log}
}

// Assemble writes every produced file into a zip at archivePath, preserving
// the per-case directory layout relative to workRoot. Per-file write
// failures are recorded on result and assembly continues. Returns ErrNoFiles
// when not a single file could be added.
func (a *ArchiveAssembler) Assemble(result *PipelineResult, workRoot, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", archivePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, archiveCompressionLevel)
	})

	added := 0
	for _, path := range result.DownloadedFiles {
		if err := a.addFile(zw, workRoot, path); err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("could not add file to archive")
			result.DownloadErrors = append(result.DownloadErrors,
				fmt.Sprintf("Failed to archive %s: %v", filepath.Base(path), err))
			continue
		}
		added++
	}

	if added == 0 {
		zw.Close()
		os.Remove(archivePath)
		return ErrNoFiles
	}

	if len(result.DownloadErrors) > 0 {
		if err := a.writeManifest(zw, result.DownloadErrors); err != nil {
			a.log.Warn().Err(err).Msg("could not write error manifest")
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func (a *ArchiveAssembler) addFile(zw *zip.Writer, workRoot, path string) error {
	rel, err := filepath.Rel(workRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func (a *ArchiveAssembler) writeManifest(zw *zip.Writer, lines []string) error {
	w, err := zw.Create(errorManifestName)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
