package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) JobStarted(info JobInfo) {
	for _, r := range c.reporters {
		r.JobStarted(info)
	}
}

func (c *CompositeReporter) DownloadProgress(downloaded, total int64) {
	for _, r := range c.reporters {
		r.DownloadProgress(downloaded, total)
	}
}

func (c *CompositeReporter) ProbeComplete(summary ProbeSummary) {
	for _, r := range c.reporters {
		r.ProbeComplete(summary)
	}
}

func (c *CompositeReporter) TechnicalEvaluated(summary TechnicalSummary) {
	for _, r := range c.reporters {
		r.TechnicalEvaluated(summary)
	}
}

func (c *CompositeReporter) SamplingStarted(totalFrames int) {
	for _, r := range c.reporters {
		r.SamplingStarted(totalFrames)
	}
}

func (c *CompositeReporter) SampleProgress(snapshot SampleSnapshot) {
	for _, r := range c.reporters {
		r.SampleProgress(snapshot)
	}
}

func (c *CompositeReporter) ContentEvaluated(summary ContentSummary) {
	for _, r := range c.reporters {
		r.ContentEvaluated(summary)
	}
}

func (c *CompositeReporter) JobComplete(outcome Outcome) {
	for _, r := range c.reporters {
		r.JobComplete(outcome)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err JobError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(context FileProgressContext) {
	for _, r := range c.reporters {
		r.FileProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
