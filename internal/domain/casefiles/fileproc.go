package casefiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/platform/objectstore"
)

// origPrefix marks the as-downloaded copy of a file, before compression.
const origPrefix = "orig_"

// FileTask is one attachment to fetch and shrink. Tasks live for a single
// request only.
type FileTask struct {
	Kind     string
	Filename string
	OwnerID  uuid.UUID
	CaseID   uuid.UUID
	DestDir  string
}

// FileResult is the terminal outcome of one FileTask. Exactly one of Path
// (on success) or Err (on failure) is meaningful.
type FileResult struct {
	OK   bool
	Path string
	Err  string
}

// PerFileProcessor realizes one FileTask end to end: download, compress,
// swap the compressed file into the final position. It never panics out;
// every failure becomes a FileResult with a message.
type PerFileProcessor struct {
	store      objectstore.Store
	compressor *FileCompressor
	log        zerolog.Logger
}

func NewPerFileProcessor(store objectstore.Store, compressor *FileCompressor, log zerolog.Logger) *PerFileProcessor {
	return &PerFileProcessor{store: store, compressor: compressor, log: log}
}

func (p *PerFileProcessor) Process(ctx context.Context, task FileTask, stats *Stats) FileResult {
	origPath := filepath.Join(task.DestDir, origPrefix+task.Filename)
	finalPath := filepath.Join(task.DestDir, task.Filename)

	if err := p.store.Download(ctx, task.OwnerID.String(), task.Filename, origPath); err != nil {
		p.log.Warn().Err(err).
			Str("case_id", task.CaseID.String()).
			Str("kind", task.Kind).
			Msg("download failed")
		return FileResult{Err: fmt.Sprintf("Failed to download %s file for case %s: %s",
			task.Kind, task.CaseID, task.Filename)}
	}

	if p.compressor.Compress(origPath, finalPath, stats) {
		// The compressed copy is in place; the original is just disk waste.
		if err := os.Remove(origPath); err != nil {
			p.log.Warn().Err(err).Str("path", origPath).Msg("could not remove original after compression")
		}
		return FileResult{OK: true, Path: finalPath}
	}

	// Compression failed. The original bytes are still the guaranteed
	// fallback: move them into the final position.
	if err := os.Rename(origPath, finalPath); err != nil {
		return FileResult{Err: fmt.Sprintf("Failed to recover original %s file for case %s: %s",
			task.Kind, task.CaseID, task.Filename)}
	}
	return FileResult{OK: true, Path: finalPath}
}
