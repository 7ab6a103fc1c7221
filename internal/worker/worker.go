// Package worker provides types and utilities for parallel frame analysis.
package worker

// FrameResult contains the result of decoding and reading one sampled frame.
type FrameResult struct {
	Index   int
	Seconds float64
	Text    string
	Skipped bool
	Err     error
}

// Progress represents frame analysis progress information.
type Progress struct {
	FramesComplete int
	FramesTotal    int
	FramesWithText int
	FramesSkipped  int
}

// Percent returns the completion percentage.
func (p Progress) Percent() float64 {
	if p.FramesTotal == 0 {
		return 0
	}
	return float64(p.FramesComplete) / float64(p.FramesTotal) * 100
}

// Semaphore provides a counting semaphore for controlling concurrency.
// It bounds the number of frames in flight so decoded frame buffers do
// not accumulate in memory.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	// Pre-fill the permits
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Semaphore is full, this shouldn't happen in normal use
	}
}

// Chan returns the underlying permit channel for use with select.
// This allows context-aware acquisition of permits.
func (s *Semaphore) Chan() <-chan struct{} {
	return s.permits
}
