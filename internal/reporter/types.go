// Package reporter provides progress reporting interfaces and implementations.
package reporter

// JobInfo describes the file about to be checked.
type JobInfo struct {
	Input    string
	Preset   string
	Workers  int
	Timeout  string
	VocabLen int
}

// ProbeSummary is the metadata snapshot shown before analysis starts.
type ProbeSummary struct {
	Resolution string
	FrameRate  float64
	Codec      string
	Duration   string
	BitRate    string
	FileSize   string
}

// CheckLine is one technical rule outcome.
type CheckLine struct {
	Name     string
	Current  string
	Required string
	Passed   bool
}

// TechnicalSummary contains the technical stage results.
type TechnicalSummary struct {
	Passed   bool
	Checks   []CheckLine
	Warnings []string
}

// SampleSnapshot contains frame analysis progress.
type SampleSnapshot struct {
	Completed int
	Total     int
	WithText  int
}

// ContentSummary contains the content stage results.
type ContentSummary struct {
	TextDetected   bool
	FramesAnalyzed int
	FramesWithText int
	SpellingErrors int
	GrammarErrors  int
}

// IssueLine is one text-quality finding for display.
type IssueLine struct {
	Type       string
	Timestamp  string
	Word       string
	Suggestion string
	Message    string
}

// Outcome contains the final verdict for one file.
type Outcome struct {
	Input           string
	Status          string
	TechnicalStatus string
	ContentStatus   string
	TotalErrors     int
	Issues          []IssueLine
	Recommendations []string
}

// JobError contains error information.
type JobError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	TotalFiles  int
	PassedCount int
	FailedCount int
}
