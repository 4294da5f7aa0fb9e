package casefiles

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/domain/cases"
)

// PipelineResult accumulates every case's output for one request. It feeds
// both the archive and the response headers.
type PipelineResult struct {
	DownloadedFiles []string
	DownloadErrors  []string
	Stats           Stats
	CasesProcessed  int
}

// BatchScheduler partitions the case list into bounded batches and drives
// the case-tier worker pool. Batches run strictly in sequence; within a
// batch, cases complete in any order and are merged as they finish.
type BatchScheduler struct {
	caseProc *PerCaseProcessor
	settings config.BundleSettings
	numCPU   func() int
	log      zerolog.Logger
}

func NewBatchScheduler(caseProc *PerCaseProcessor, settings config.BundleSettings, log zerolog.Logger) *BatchScheduler {
	return &BatchScheduler{
		caseProc: caseProc,
		settings: settings,
		numCPU:   runtime.NumCPU,
		log:      log,
	}
}

// maxCaseWorkers derives the case-tier worker budget from the host CPU
// count: a fraction of the cores, hard-capped.
func (s *BatchScheduler) maxCaseWorkers() int {
	workers := int(float64(s.numCPU()) * s.settings.CoreFraction)
	if workers > s.settings.MaxCaseWorkers {
		workers = s.settings.MaxCaseWorkers
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// plan resolves the batch size and worker count for a given case count.
func (s *BatchScheduler) plan(caseCount int) (batchSize, workers int) {
	maxWorkers := s.maxCaseWorkers()
	switch {
	case caseCount <= s.settings.SmallBatchThreshold:
		workers = maxWorkers
		if caseCount < workers {
			workers = caseCount
		}
		return caseCount, workers
	case caseCount <= s.settings.LargeBatchThreshold:
		return s.settings.MediumBatchSize, maxWorkers
	default:
		return s.settings.LargeBatchSize, maxWorkers
	}
}

func (s *BatchScheduler) Run(ctx context.Context, records []*cases.CaseFileRecord, workRoot string) *PipelineResult {
	result := &PipelineResult{}
	if len(records) == 0 {
		return result
	}

	batchSize, workers := s.plan(len(records))
	s.log.Info().
		Int("cases", len(records)).
		Int("batch_size", batchSize).
		Int("workers", workers).
		Msg("starting case file bundle")

	var mu sync.Mutex
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for _, rec := range batch {
			rec := rec
			g.Go(func() error {
				var caseResult *CaseResult
				func() {
					// One crashing case degrades to a synthetic error line;
					// its siblings and later batches proceed.
					defer func() {
						if r := recover(); r != nil {
							caseResult = &CaseResult{Errors: []string{
								fmt.Sprintf("Unexpected failure processing case %s: %v", rec.CaseID, r),
							}}
						}
					}()
					caseResult = s.caseProc.ProcessCase(gctx, rec, workRoot)
				}()

				// Streaming merge: fold each case in as soon as it finishes.
				mu.Lock()
				result.DownloadedFiles = append(result.DownloadedFiles, caseResult.Files...)
				result.DownloadErrors = append(result.DownloadErrors, caseResult.Errors...)
				result.CasesProcessed++
				processed := result.CasesProcessed
				mu.Unlock()
				result.Stats.Merge(&caseResult.Stats)

				s.log.Debug().
					Str("case_id", rec.CaseID.String()).
					Int("processed", processed).
					Int("total", len(records)).
					Msg("case complete")
				return nil
			})
		}
		// Batches never overlap: drain this pool before starting the next.
		g.Wait()
	}

	return result
}
