package casefiles

import "sync"

// Stats accumulates compression outcomes across all file workers of a
// request. Many goroutines increment it concurrently; the mutex is held
// only for the duration of each increment, never across I/O.
type Stats struct {
	mu                sync.Mutex
	imagesCompressed  int
	pdfsCompressed    int
	compressionErrors int
}

func (s *Stats) AddImage() {
	s.mu.Lock()
	s.imagesCompressed++
	s.mu.Unlock()
}

func (s *Stats) AddPDF() {
	s.mu.Lock()
	s.pdfsCompressed++
	s.mu.Unlock()
}

func (s *Stats) AddError() {
	s.mu.Lock()
	s.compressionErrors++
	s.mu.Unlock()
}

// Merge folds other into s. Used when case-level accumulators roll up into
// the pipeline totals.
func (s *Stats) Merge(other *Stats) {
	other.mu.Lock()
	img, pdf, errs := other.imagesCompressed, other.pdfsCompressed, other.compressionErrors
	other.mu.Unlock()

	s.mu.Lock()
	s.imagesCompressed += img
	s.pdfsCompressed += pdf
	s.compressionErrors += errs
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the counters.
func (s *Stats) Snapshot() (imagesCompressed, pdfsCompressed, compressionErrors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imagesCompressed, s.pdfsCompressed, s.compressionErrors
}
