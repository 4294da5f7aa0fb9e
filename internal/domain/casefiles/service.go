package casefiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/domain/cases"
	"github.com/caseflow/caseflow/internal/platform/auth"
	"github.com/caseflow/caseflow/internal/platform/objectstore"
	"github.com/caseflow/caseflow/internal/platform/telemetry"
)

// Business failures the bundle endpoint maps onto status codes.
var (
	ErrEmptyInput = errors.New("case_ids must not be empty")
	ErrForbidden  = errors.New("insufficient privileges for bulk file retrieval")
	ErrNoCases    = errors.New("no matching cases found")
)

// MetadataSource fetches the active-case file snapshot.
type MetadataSource interface {
	FetchActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*cases.CaseFileRecord, error)
}

// RoleSource resolves a caller's access level.
type RoleSource interface {
	RoleLevel(ctx context.Context, id uuid.UUID) (int, error)
}

// BundleOutput carries everything the handler needs to respond: the archive
// on disk and the counts for the response headers.
type BundleOutput struct {
	ArchivePath       string
	DownloadedFiles   int
	DownloadErrors    int
	CasesProcessed    int
	ImagesCompressed  int
	PDFsCompressed    int
	CompressionErrors int
}

// Service orchestrates the bulk case-file pipeline: validate, authorize,
// fetch metadata, process, assemble, respond. The per-request working
// directory is removed on every exit path; the archive survives for the
// handler to stream and remove.
type Service struct {
	roles     RoleSource
	metadata  MetadataSource
	scheduler *BatchScheduler
	assembler *ArchiveAssembler
	workDir   string
	metrics   *telemetry.Registry
	log       zerolog.Logger
}

func NewService(
	roles RoleSource,
	metadata MetadataSource,
	store objectstore.Store,
	mode ModeSource,
	settings config.BundleSettings,
	metrics *telemetry.Registry,
	log zerolog.Logger,
) *Service {
	compressor := NewFileCompressor(mode, log)
	fileProc := NewPerFileProcessor(store, compressor, log)
	caseProc := NewPerCaseProcessor(fileProc, settings.FileWorkersPerCase, log)
	return &Service{
		roles:     roles,
		metadata:  metadata,
		scheduler: NewBatchScheduler(caseProc, settings, log),
		assembler: NewArchiveAssembler(log),
		workDir:   settings.WorkDir,
		metrics:   metrics,
		log:       log,
	}
}

// Bundle runs the full pipeline for one request.
func (s *Service) Bundle(ctx context.Context, callerID uuid.UUID, ids []uuid.UUID) (out *BundleOutput, err error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		// Exactly one observation per request, on every exit path.
		if s.metrics != nil {
			s.metrics.Add("bundle_requests_total", 1, map[string]string{"outcome": outcome})
			s.metrics.Observe("bundle_duration_seconds", time.Since(start).Seconds(), nil)
		}
	}()

	// Validating: reject an empty id list before touching the database.
	if len(ids) == 0 {
		outcome = "invalid"
		return nil, ErrEmptyInput
	}

	// Authorizing
	level, err := s.roles.RoleLevel(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("resolve caller role: %w", err)
	}
	if level < auth.AdminLevel {
		outcome = "forbidden"
		return nil, ErrForbidden
	}

	// FetchingMetadata
	records, err := s.metadata.FetchActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch case metadata: %w", err)
	}
	if len(records) == 0 {
		outcome = "not_found"
		return nil, ErrNoCases
	}

	// One working directory per request; cases get subdirectories inside.
	// The archive lives next to it, not inside, so cleanup can be
	// unconditional.
	requestID := uuid.New().String()
	workRoot := filepath.Join(s.workDir, "bundle_"+requestID)
	if err := os.MkdirAll(workRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workRoot); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("dir", workRoot).Msg("working directory cleanup failed")
		}
	}()

	// Processing
	result := s.scheduler.Run(ctx, records, workRoot)

	// Assembling
	archivePath := filepath.Join(s.workDir,
		fmt.Sprintf("case_files_%s_%s.zip", time.Now().Format("20060102_150405"), requestID))
	if err := s.assembler.Assemble(result, workRoot, archivePath); err != nil {
		if errors.Is(err, ErrNoFiles) {
			outcome = "not_found"
		}
		return nil, err
	}

	images, pdfs, compErrs := result.Stats.Snapshot()
	outcome = "ok"
	return &BundleOutput{
		ArchivePath:       archivePath,
		DownloadedFiles:   len(result.DownloadedFiles),
		DownloadErrors:    len(result.DownloadErrors),
		CasesProcessed:    result.CasesProcessed,
		ImagesCompressed:  images,
		PDFsCompressed:    pdfs,
		CompressionErrors: compErrs,
	}, nil
}
