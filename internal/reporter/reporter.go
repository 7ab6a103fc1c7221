package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	JobStarted(info JobInfo)
	DownloadProgress(downloaded, total int64)
	ProbeComplete(summary ProbeSummary)
	TechnicalEvaluated(summary TechnicalSummary)
	SamplingStarted(totalFrames int)
	SampleProgress(snapshot SampleSnapshot)
	ContentEvaluated(summary ContentSummary)
	JobComplete(outcome Outcome)
	Warning(message string)
	Error(err JobError)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) JobStarted(JobInfo)                  {}
func (NullReporter) DownloadProgress(int64, int64)       {}
func (NullReporter) ProbeComplete(ProbeSummary)          {}
func (NullReporter) TechnicalEvaluated(TechnicalSummary) {}
func (NullReporter) SamplingStarted(int)                 {}
func (NullReporter) SampleProgress(SampleSnapshot)       {}
func (NullReporter) ContentEvaluated(ContentSummary)     {}
func (NullReporter) JobComplete(Outcome)                 {}
func (NullReporter) Warning(string)                      {}
func (NullReporter) Error(JobError)                      {}
func (NullReporter) BatchStarted(BatchStartInfo)         {}
func (NullReporter) FileProgress(FileProgressContext)    {}
func (NullReporter) BatchComplete(BatchSummary)          {}
func (NullReporter) Verbose(string)                      {}
