// Package pipeline orchestrates a quality check: probe, technical rule
// evaluation, frame sampling, text extraction, and report assembly.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/reelcheck/reelcheck/internal/config"
	"github.com/reelcheck/reelcheck/internal/dedupe"
	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
	"github.com/reelcheck/reelcheck/internal/ffmpeg"
	"github.com/reelcheck/reelcheck/internal/ffprobe"
	"github.com/reelcheck/reelcheck/internal/ocr"
	"github.com/reelcheck/reelcheck/internal/report"
	"github.com/reelcheck/reelcheck/internal/reporter"
	"github.com/reelcheck/reelcheck/internal/sampler"
	"github.com/reelcheck/reelcheck/internal/technical"
	"github.com/reelcheck/reelcheck/internal/textcheck"
	"github.com/reelcheck/reelcheck/internal/util"
	"github.com/reelcheck/reelcheck/internal/worker"
)

// Capabilities bundles the external tools the pipeline drives. Zero
// fields are filled with the default exec-based implementations, and
// tests substitute fakes.
type Capabilities struct {
	Prober  ffprobe.Prober
	Decoder ffmpeg.Decoder
	Engine  ocr.Engine
}

func (c Capabilities) withDefaults(cfg *config.Config) Capabilities {
	if c.Prober == nil {
		c.Prober = ffprobe.FFprobe{}
	}
	if c.Decoder == nil {
		c.Decoder = ffmpeg.FFmpeg{}
	}
	if c.Engine == nil {
		c.Engine = ocr.NewTesseract(cfg.TesseractCmd)
	}
	return c
}

// Job describes one file to check.
type Job struct {
	Path       string
	Vocabulary []string
}

// frameText is one sampled frame's extracted text, timestamp attached.
type frameText struct {
	seconds float64
	text    string
}

// Run executes a complete quality check for one file. It returns either
// a finished report or an error; a timeout discards partial results
// rather than passing off an incomplete scan as authoritative.
func Run(ctx context.Context, cfg *config.Config, job Job, caps Capabilities, rep reporter.Reporter) (*report.Report, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	caps = caps.withDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	preset := ""
	if cfg.AnalysisPreset != nil {
		preset = cfg.AnalysisPreset.String()
	}
	rep.JobStarted(reporter.JobInfo{
		Input:    util.GetFilename(job.Path),
		Preset:   preset,
		Workers:  cfg.Workers,
		Timeout:  cfg.Timeout.String(),
		VocabLen: len(job.Vocabulary),
	})

	meta, err := caps.Prober.Probe(ctx, job.Path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, stageInterrupted(ctx, qcerrors.StageTechnical)
		}
		rep.Error(reporter.JobError{
			Title:      "Probe Error",
			Message:    fmt.Sprintf("Could not analyze %s: %v", util.GetFilename(job.Path), err),
			Context:    fmt.Sprintf("File: %s", job.Path),
			Suggestion: "Check if the file is a valid video format",
		})
		return nil, err
	}

	rep.ProbeComplete(reporter.ProbeSummary{
		Resolution: meta.Resolution(),
		FrameRate:  meta.FrameRate,
		Codec:      meta.CodecName,
		Duration:   util.FormatDuration(meta.Duration),
		BitRate:    util.FormatBitRate(meta.BitRate),
		FileSize:   util.FormatFileSize(meta.FileSize),
	})

	techRes := technical.Evaluate(meta)
	rep.TechnicalEvaluated(technicalSummary(techRes))
	for _, warning := range techRes.Warnings {
		rep.Warning(warning)
	}

	in := report.Input{Technical: techRes}

	if err := caps.Engine.Available(); err != nil {
		rep.Warning(fmt.Sprintf("Text analysis skipped: %v", err))
		in.ContentErr = err
	} else {
		frames, contentErr := analyzeFrames(ctx, cfg, job.Path, meta.Duration, caps, rep)
		if contentErr != nil {
			return nil, contentErr
		}

		in.TotalKeyframes = frames.total
		in.FramesWithText = frames.withText
		in.TextDetected = frames.withText > 0
		in.Issues = dedupe.Merge(frames.issues(cfg, job.Vocabulary), cfg.MergeWindowSecs)
	}

	rep.ContentEvaluated(reporter.ContentSummary{
		TextDetected:   in.TextDetected,
		FramesAnalyzed: in.TotalKeyframes,
		FramesWithText: in.FramesWithText,
		SpellingErrors: countKind(in.Issues, textcheck.KindSpelling),
		GrammarErrors:  countKind(in.Issues, textcheck.KindGrammar),
	})

	rpt := report.Generate(in)
	rep.JobComplete(outcome(job.Path, rpt))
	return rpt, nil
}

// frameSet collects the surviving frame texts from the sampling pass.
type frameSet struct {
	total    int
	withText int
	texts    []frameText
}

func (f frameSet) issues(cfg *config.Config, vocabulary []string) []textcheck.Issue {
	checker := textcheck.NewChecker(
		textcheck.NewVocabulary(vocabulary),
		cfg.SpellingMaxDistance,
		cfg.MinWordLength,
	)
	var issues []textcheck.Issue
	for _, ft := range f.texts {
		issues = append(issues, checker.Check(ft.text, ft.seconds)...)
	}
	return issues
}

// analyzeFrames decodes and reads every sampled frame on a bounded
// worker pool. Decode and per-frame OCR failures are recoverable and
// skip the frame; cancellation and deadline abort the whole pass.
func analyzeFrames(ctx context.Context, cfg *config.Config, path string, duration float64, caps Capabilities, rep reporter.Reporter) (frameSet, error) {
	samples := sampler.Plan(duration, sampler.Policy{
		MaxKeyframes: cfg.MaxKeyframes,
		IntervalSecs: cfg.IntervalSecs,
	})
	set := frameSet{total: len(samples)}
	if len(samples) == 0 {
		return set, nil
	}

	rep.SamplingStarted(len(samples))

	sem := worker.NewSemaphore(cfg.Workers)
	results := make(chan worker.FrameResult, len(samples))
	var wg sync.WaitGroup

	for _, sample := range samples {
		select {
		case <-ctx.Done():
			wg.Wait()
			return frameSet{}, stageInterrupted(ctx, qcerrors.StageContent)
		case <-sem.Chan():
		}

		wg.Add(1)
		go func(s sampler.Sample) {
			defer wg.Done()
			defer sem.Release()
			results <- analyzeFrame(ctx, s, path, cfg, caps)
		}(sample)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	prog := worker.Progress{FramesTotal: len(samples)}
	for res := range results {
		if res.Err != nil {
			if ctx.Err() != nil {
				// Drain remaining workers before reporting the abort.
				for range results {
				}
				return frameSet{}, stageInterrupted(ctx, qcerrors.StageContent)
			}
			return frameSet{}, res.Err
		}
		prog.FramesComplete++
		if res.Skipped {
			prog.FramesSkipped++
			rep.Verbose(fmt.Sprintf("Skipped frame at %s: decode or OCR failed", util.FormatTimestamp(res.Seconds)))
		} else if res.Text != "" {
			prog.FramesWithText++
			set.texts = append(set.texts, frameText{seconds: res.Seconds, text: res.Text})
		}
		rep.SampleProgress(reporter.SampleSnapshot{
			Completed: prog.FramesComplete,
			Total:     prog.FramesTotal,
			WithText:  prog.FramesWithText,
		})
	}
	set.withText = prog.FramesWithText
	if prog.FramesSkipped > 0 {
		rep.Warning(fmt.Sprintf("%d of %d frames could not be analyzed", prog.FramesSkipped, prog.FramesTotal))
	}

	if ctx.Err() != nil {
		return frameSet{}, stageInterrupted(ctx, qcerrors.StageContent)
	}

	// Completion order is nondeterministic under the pool; the final
	// sort re-establishes timestamp order for the text checks.
	sort.Slice(set.texts, func(i, j int) bool {
		return set.texts[i].seconds < set.texts[j].seconds
	})
	return set, nil
}

func analyzeFrame(ctx context.Context, s sampler.Sample, path string, cfg *config.Config, caps Capabilities) worker.FrameResult {
	res := worker.FrameResult{Index: s.Index, Seconds: s.Seconds}

	image, err := caps.Decoder.DecodeFrame(ctx, path, s.Seconds)
	if err != nil {
		if kind, ok := qcerrors.KindOf(err); ok && kind.Recoverable() && ctx.Err() == nil {
			res.Skipped = true
			return res
		}
		res.Err = err
		return res
	}

	regions, err := caps.Engine.Recognize(ctx, image)
	if err != nil {
		if ctx.Err() != nil {
			res.Err = stageInterrupted(ctx, qcerrors.StageContent)
			return res
		}
		// One failed OCR invocation skips the frame; the engine was
		// verified available before the pass started.
		res.Skipped = true
		return res
	}

	res.Text = ocr.FrameText(regions, cfg.OCRConfidence)
	return res
}

// stageInterrupted maps a done context to the matching job error.
func stageInterrupted(ctx context.Context, stage qcerrors.Stage) error {
	if ctx.Err() == context.DeadlineExceeded {
		return qcerrors.NewTimeoutError(stage, ctx.Err())
	}
	return qcerrors.NewCancelledError(stage, ctx.Err())
}

func technicalSummary(res *technical.Result) reporter.TechnicalSummary {
	return reporter.TechnicalSummary{
		Passed: res.Passed,
		Checks: []reporter.CheckLine{
			checkLine(res.Resolution),
			checkLine(res.FrameRate),
			checkLine(res.Codec),
		},
		Warnings: res.Warnings,
	}
}

func checkLine(rc technical.RuleCheck) reporter.CheckLine {
	return reporter.CheckLine{
		Name:     rc.Name,
		Current:  rc.Current,
		Required: rc.Required,
		Passed:   rc.Passed,
	}
}

func countKind(issues []textcheck.Issue, kind textcheck.IssueKind) int {
	n := 0
	for _, issue := range issues {
		if issue.Kind == kind {
			n++
		}
	}
	return n
}

func outcome(path string, rpt *report.Report) reporter.Outcome {
	out := reporter.Outcome{
		Input:           util.GetFilename(path),
		Status:          rpt.Status,
		TechnicalStatus: rpt.TechnicalStatus,
		ContentStatus:   rpt.ContentStatus,
		TotalErrors:     rpt.Summary.TotalErrors,
	}
	for _, entry := range rpt.Errors {
		line := reporter.IssueLine{
			Type:       entry.Type,
			Timestamp:  entry.Timestamp,
			Word:       entry.Word,
			Suggestion: entry.Suggestion,
			Message:    entry.Error,
		}
		out.Issues = append(out.Issues, line)
	}
	for _, rec := range rpt.Recommendations {
		out.Recommendations = append(out.Recommendations, rec.Recommendation)
	}
	return out
}

// RunBatch checks a list of files sequentially, reporting per-file
// progress. One file's failure does not stop the rest; the error from
// the last failing file is returned alongside the collected reports.
func RunBatch(ctx context.Context, cfg *config.Config, paths []string, vocabulary []string, caps Capabilities, rep reporter.Reporter) ([]*report.Report, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	if len(paths) > 1 {
		var names []string
		for _, p := range paths {
			names = append(names, util.GetFilename(p))
		}
		rep.BatchStarted(reporter.BatchStartInfo{
			TotalFiles: len(paths),
			FileList:   names,
		})
	}

	var (
		reports []*report.Report
		lastErr error
		passed  int
		failed  int
	)
	start := time.Now()
	for idx, path := range paths {
		if ctx.Err() != nil {
			rep.Warning(fmt.Sprintf("Batch cancelled: %v", ctx.Err()))
			break
		}

		if len(paths) > 1 {
			rep.FileProgress(reporter.FileProgressContext{
				CurrentFile: idx + 1,
				TotalFiles:  len(paths),
			})
		}

		rpt, err := Run(ctx, cfg, Job{Path: path, Vocabulary: vocabulary}, caps, rep)
		if err != nil {
			lastErr = err
			failed++
			continue
		}
		reports = append(reports, rpt)
		if rpt.Status == report.StatusPass {
			passed++
		} else {
			failed++
		}
	}

	if len(paths) > 1 {
		rep.BatchComplete(reporter.BatchSummary{
			TotalFiles:  len(paths),
			PassedCount: passed,
			FailedCount: failed,
		})
		rep.Verbose(fmt.Sprintf("Batch finished in %s", time.Since(start).Round(time.Second)))
	}
	return reports, lastErr
}
