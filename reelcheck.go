// Package reelcheck provides a Go library for video quality checks.
//
// Reelcheck inspects a video for two independent quality dimensions:
// technical conformance (resolution, frame rate, codec) and on-screen
// text quality (spelling and grammar in burned-in captions, lower
// thirds, and graphics, read via OCR). Both checks land in a single
// timestamped report.
//
// Basic usage:
//
//	checker, err := reelcheck.New(
//	    reelcheck.WithPreset(reelcheck.PresetStrict),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := checker.Check(ctx, "promo.mp4", []string{"Quibbletron"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Status: %s (%d errors)\n", report.Status, report.Summary.TotalErrors)
package reelcheck

import (
	"context"
	"os"
	"time"

	"github.com/reelcheck/reelcheck/internal/config"
	"github.com/reelcheck/reelcheck/internal/discovery"
	"github.com/reelcheck/reelcheck/internal/pipeline"
	"github.com/reelcheck/reelcheck/internal/report"
	"github.com/reelcheck/reelcheck/internal/reporter"
	"github.com/reelcheck/reelcheck/internal/retrieve"

	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
)

// Re-export preset types
type Preset = config.Preset

const (
	PresetStrict   = config.PresetStrict
	PresetStandard = config.PresetStandard
	PresetQuick    = config.PresetQuick
)

// ParsePreset converts a preset string to a Preset value.
// Valid values are "strict", "standard", and "quick" (case-insensitive).
func ParsePreset(s string) (Preset, error) {
	return config.ParsePreset(s)
}

// Report is the finished quality report. Its JSON field names are a
// stable contract shared with the HTTP API.
type Report = report.Report

// Reporter receives progress events during a check.
type Reporter = reporter.Reporter

// NullReporter discards all progress events.
type NullReporter = reporter.NullReporter

// NewTerminalReporter returns a Reporter that prints human-friendly
// progress to the terminal.
func NewTerminalReporter() Reporter {
	return reporter.NewTerminalReporter()
}

// NewJSONReporter returns a Reporter that emits NDJSON events on stdout.
func NewJSONReporter() Reporter {
	return reporter.NewJSONReporter()
}

// Checker is the main entry point for quality checks.
type Checker struct {
	config *config.Config
}

// Option configures the checker.
type Option func(*config.Config)

// New creates a new Checker with the given options.
func New(opts ...Option) (*Checker, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Checker{config: cfg}, nil
}

// WithPreset applies an analysis preset.
func WithPreset(p Preset) Option {
	return func(c *config.Config) {
		c.ApplyPreset(p)
	}
}

// WithMaxKeyframes caps how many frames are sampled per video.
func WithMaxKeyframes(n int) Option {
	return func(c *config.Config) {
		c.MaxKeyframes = n
	}
}

// WithSampleInterval sets the minimum spacing between sampled frames.
func WithSampleInterval(secs float64) Option {
	return func(c *config.Config) {
		c.IntervalSecs = secs
	}
}

// WithOCRConfidence sets the minimum confidence for a text region to
// count, on a 0-100 scale.
func WithOCRConfidence(confidence float64) Option {
	return func(c *config.Config) {
		c.OCRConfidence = confidence
	}
}

// WithTesseractCommand overrides the OCR binary. The default looks up
// tesseract on PATH.
func WithTesseractCommand(cmd string) Option {
	return func(c *config.Config) {
		c.TesseractCmd = cmd
	}
}

// WithSpellingMaxDistance bounds the edit distance used when searching
// for spelling suggestions.
func WithSpellingMaxDistance(distance int) Option {
	return func(c *config.Config) {
		c.SpellingMaxDistance = distance
	}
}

// WithMergeWindow sets the window within which repeated identical
// issues collapse into one.
func WithMergeWindow(secs float64) Option {
	return func(c *config.Config) {
		c.MergeWindowSecs = secs
	}
}

// WithWorkers sets the frame analysis pool size.
func WithWorkers(n int) Option {
	return func(c *config.Config) {
		c.Workers = n
	}
}

// WithTimeout sets the wall-clock budget for one check.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) {
		c.Timeout = d
	}
}

// NewFromConfigFile creates a Checker from a YAML config file. Options
// apply after the file, so they override file values.
func NewFromConfigFile(path string, opts ...Option) (*Checker, error) {
	cfg := config.NewConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Checker{config: cfg}, nil
}

// Check runs a quality check on a local video file. The vocabulary
// lists terms exempt from spelling checks; rep may be nil.
func (c *Checker) Check(ctx context.Context, input string, vocabulary []string, rep Reporter) (*Report, error) {
	cfg := *c.config
	return pipeline.Run(ctx, &cfg, pipeline.Job{
		Path:       input,
		Vocabulary: vocabulary,
	}, pipeline.Capabilities{}, rep)
}

// CheckURL downloads a video from a share link into a temporary
// directory, checks it, and cleans up the download.
func (c *Checker) CheckURL(ctx context.Context, shareURL string, vocabulary []string, rep Reporter) (*Report, error) {
	workDir, err := os.MkdirTemp("", "reelcheck-")
	if err != nil {
		return nil, qcerrors.NewRetrievalError("cannot create work directory", err)
	}
	defer os.RemoveAll(workDir)

	client := retrieve.NewClient()
	if rep != nil {
		client.Progress = rep.DownloadProgress
	}
	path, err := client.Fetch(ctx, shareURL, workDir)
	if err != nil {
		return nil, err
	}
	return c.Check(ctx, path, vocabulary, rep)
}

// CheckBatch runs quality checks over multiple files sequentially.
func (c *Checker) CheckBatch(ctx context.Context, inputs []string, vocabulary []string, rep Reporter) ([]*Report, error) {
	cfg := *c.config
	return pipeline.RunBatch(ctx, &cfg, inputs, vocabulary, pipeline.Capabilities{}, rep)
}

// FindVideos finds video files in a directory, sorted by filename.
func FindVideos(dir string) ([]string, error) {
	result, err := discovery.FindVideoFiles(dir)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}
