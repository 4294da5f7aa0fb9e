package casefiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/caseflow/caseflow/internal/domain/cases"
)

// CaseResult aggregates one case's outcomes. It is owned exclusively by the
// worker that produced it until the scheduler merges it.
type CaseResult struct {
	Files  []string
	Errors []string
	Stats  Stats
}

// PerCaseProcessor fans out a case's attachments onto a bounded file-tier
// pool, inside an isolated per-case directory so concurrent cases never
// collide on disk.
type PerCaseProcessor struct {
	files       *PerFileProcessor
	fileWorkers int
	log         zerolog.Logger
}

func NewPerCaseProcessor(files *PerFileProcessor, fileWorkers int, log zerolog.Logger) *PerCaseProcessor {
	if fileWorkers <= 0 {
		fileWorkers = 4
	}
	return &PerCaseProcessor{files: files, fileWorkers: fileWorkers, log: log}
}

// caseDirName builds the per-case subdirectory name from the case id and
// the patient name with whitespace collapsed to underscores.
func caseDirName(rec *cases.CaseFileRecord) string {
	patient := strings.Join(strings.Fields(rec.PatientFirst+" "+rec.PatientLast), "_")
	if patient == "" {
		return rec.CaseID.String()
	}
	return rec.CaseID.String() + "_" + patient
}

func (p *PerCaseProcessor) ProcessCase(ctx context.Context, rec *cases.CaseFileRecord, workRoot string) *CaseResult {
	result := &CaseResult{}

	caseDir := filepath.Join(workRoot, caseDirName(rec))
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Failed to set up directory for case %s: %v", rec.CaseID, err))
		return result
	}

	var tasks []FileTask
	for _, f := range []struct {
		kind string
		name *string
	}{
		{cases.FileKindDemo, rec.DemoFile},
		{cases.FileKindNote, rec.NoteFile},
		{cases.FileKindMisc, rec.MiscFile},
	} {
		if f.name != nil && *f.name != "" {
			tasks = append(tasks, FileTask{
				Kind:     f.kind,
				Filename: *f.name,
				OwnerID:  rec.OwnerID,
				CaseID:   rec.CaseID,
				DestDir:  caseDir,
			})
		}
	}
	if len(tasks) == 0 {
		return result
	}

	workers := p.fileWorkers
	if len(tasks) < workers {
		workers = len(tasks)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			// A panicking file task must surface as that task's error, not
			// abort its siblings.
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					result.Errors = append(result.Errors,
						fmt.Sprintf("Unexpected failure processing %s file for case %s: %v",
							task.Kind, task.CaseID, r))
					mu.Unlock()
				}
			}()

			res := p.files.Process(gctx, task, &result.Stats)

			mu.Lock()
			defer mu.Unlock()
			if res.OK {
				result.Files = append(result.Files, res.Path)
			} else {
				result.Errors = append(result.Errors, res.Err)
			}
			return nil
		})
	}
	g.Wait()

	return result
}
