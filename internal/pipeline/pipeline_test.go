package pipeline

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/reelcheck/reelcheck/internal/config"
	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
	"github.com/reelcheck/reelcheck/internal/ffprobe"
	"github.com/reelcheck/reelcheck/internal/ocr"
	"github.com/reelcheck/reelcheck/internal/report"
)

type fakeProber struct {
	meta *ffprobe.Metadata
	err  error
}

func (f fakeProber) Probe(ctx context.Context, path string) (*ffprobe.Metadata, error) {
	return f.meta, f.err
}

type decoderFunc func(ctx context.Context, path string, seconds float64) ([]byte, error)

func (f decoderFunc) DecodeFrame(ctx context.Context, path string, seconds float64) ([]byte, error) {
	return f(ctx, path, seconds)
}

// frameKey encodes a timestamp so the fake engine can look up what text
// "appears" at that point in the video.
func frameKey(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func passthroughDecoder() decoderFunc {
	return func(ctx context.Context, path string, seconds float64) ([]byte, error) {
		return []byte(frameKey(seconds)), nil
	}
}

type fakeEngine struct {
	availErr error
	screens  map[string]string
}

func (f fakeEngine) Available() error {
	return f.availErr
}

func (f fakeEngine) Recognize(ctx context.Context, image []byte) ([]ocr.Region, error) {
	text, ok := f.screens[string(image)]
	if !ok || text == "" {
		return nil, nil
	}
	return []ocr.Region{{Text: text, Confidence: 95}}, nil
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.MaxKeyframes = 30
	cfg.IntervalSecs = 10
	cfg.Workers = 2
	return cfg
}

func goodMetadata() *ffprobe.Metadata {
	return &ffprobe.Metadata{
		Width:     1920,
		Height:    1080,
		CodecName: "h264",
		FrameRate: 29.97,
		Duration:  30,
		BitRate:   8_000_000,
		FileSize:  30_000_000,
	}
}

func TestRunCleanVideoPasses(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: passthroughDecoder(),
		Engine:  fakeEngine{},
	}

	rpt, err := Run(context.Background(), testConfig(), Job{Path: "clip.mp4"}, caps, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rpt.Status != report.StatusPass {
		t.Errorf("expected pass, got %q", rpt.Status)
	}
	if rpt.TechnicalStatus != report.StatusPass || rpt.ContentStatus != report.StatusPass {
		t.Errorf("unexpected stage statuses: %q/%q", rpt.TechnicalStatus, rpt.ContentStatus)
	}
	if len(rpt.Errors) != 0 {
		t.Errorf("expected no errors, got %+v", rpt.Errors)
	}
	if rpt.Content.TotalKeyframes != 3 {
		t.Errorf("expected 3 sampled frames for 30s at 10s interval, got %d", rpt.Content.TotalKeyframes)
	}
	if rpt.Content.TextDetected {
		t.Error("no text should be detected")
	}
}

func TestRunMisspelledTextFailsContent(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: passthroughDecoder(),
		Engine: fakeEngine{screens: map[string]string{
			frameKey(10): "Wether",
			frameKey(20): "Wether",
		}},
	}

	rpt, err := Run(context.Background(), testConfig(), Job{Path: "clip.mp4"}, caps, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rpt.Status != report.StatusFail || rpt.ContentStatus != report.StatusFail {
		t.Errorf("expected content failure, got %q/%q", rpt.Status, rpt.ContentStatus)
	}
	if rpt.TechnicalStatus != report.StatusPass {
		t.Errorf("technical should still pass, got %q", rpt.TechnicalStatus)
	}
	// The same misspelling 10 seconds apart merges into one issue
	// carrying the earlier timestamp.
	if len(rpt.Errors) != 1 {
		t.Fatalf("expected 1 deduplicated issue, got %d: %+v", len(rpt.Errors), rpt.Errors)
	}
	issue := rpt.Errors[0]
	if issue.Type != "spelling" || issue.Word != "Wether" {
		t.Errorf("unexpected issue: %+v", issue)
	}
	if issue.Timestamp != "0:10" {
		t.Errorf("expected earliest timestamp 0:10, got %q", issue.Timestamp)
	}
	if !rpt.Content.TextDetected || rpt.Content.FramesWithText != 2 {
		t.Errorf("unexpected content analysis: %+v", rpt.Content)
	}
}

func TestRunVocabularyExemptsTerms(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: passthroughDecoder(),
		Engine: fakeEngine{screens: map[string]string{
			frameKey(10): "Haynaku",
		}},
	}

	rpt, err := Run(context.Background(), testConfig(), Job{Path: "clip.mp4", Vocabulary: []string{"Haynaku"}}, caps, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rpt.ContentStatus != report.StatusPass {
		t.Errorf("vocabulary term should not fail content: %+v", rpt.Errors)
	}
}

func TestRunOCRUnavailable(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: passthroughDecoder(),
		Engine:  fakeEngine{availErr: qcerrors.NewOCRUnavailableError("tesseract not found", nil)},
	}

	rpt, err := Run(context.Background(), testConfig(), Job{Path: "clip.mp4"}, caps, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rpt.ContentStatus != report.StatusError {
		t.Errorf("expected content status error, got %q", rpt.ContentStatus)
	}
	if rpt.TechnicalStatus != report.StatusPass {
		t.Errorf("technical results still apply, got %q", rpt.TechnicalStatus)
	}
	if rpt.Status != report.StatusFail {
		t.Errorf("unverified content fails the overall status, got %q", rpt.Status)
	}
}

func TestRunProbeErrorIsFatal(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{err: qcerrors.NewProbeError("no such file", nil)},
		Decoder: passthroughDecoder(),
		Engine:  fakeEngine{},
	}

	rpt, err := Run(context.Background(), testConfig(), Job{Path: "missing.mp4"}, caps, nil)
	if err == nil {
		t.Fatal("expected probe error")
	}
	if rpt != nil {
		t.Errorf("no report should be produced, got %+v", rpt)
	}
	if kind, ok := qcerrors.KindOf(err); !ok || kind != qcerrors.KindProbe {
		t.Errorf("expected probe kind, got %v", kind)
	}
}

func TestRunRecoverableDecodeFailureSkipsFrame(t *testing.T) {
	decoder := decoderFunc(func(ctx context.Context, path string, seconds float64) ([]byte, error) {
		if seconds == 10 {
			return nil, qcerrors.NewDecodeError(seconds, nil)
		}
		return []byte(frameKey(seconds)), nil
	})
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: decoder,
		Engine: fakeEngine{screens: map[string]string{
			frameKey(20): "The weather report for today.",
		}},
	}

	rpt, err := Run(context.Background(), testConfig(), Job{Path: "clip.mp4"}, caps, nil)
	if err != nil {
		t.Fatalf("recoverable decode failure should not abort: %v", err)
	}

	if rpt.Content.TotalKeyframes != 3 {
		t.Errorf("expected 3 planned frames, got %d", rpt.Content.TotalKeyframes)
	}
	if rpt.Content.FramesWithText != 1 {
		t.Errorf("expected 1 frame with text, got %d", rpt.Content.FramesWithText)
	}
	if rpt.ContentStatus != report.StatusPass {
		t.Errorf("clean surviving text should pass, got %q: %+v", rpt.ContentStatus, rpt.Errors)
	}
}

func TestRunTimeoutDiscardsPartialResults(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond

	decoder := decoderFunc(func(ctx context.Context, path string, seconds float64) ([]byte, error) {
		<-ctx.Done()
		return nil, qcerrors.NewCancelledError(qcerrors.StageContent, ctx.Err())
	})
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: decoder,
		Engine:  fakeEngine{},
	}

	rpt, err := Run(context.Background(), cfg, Job{Path: "clip.mp4"}, caps, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if rpt != nil {
		t.Errorf("partial results must be discarded, got %+v", rpt)
	}
	if kind, ok := qcerrors.KindOf(err); !ok || kind != qcerrors.KindTimeout {
		t.Errorf("expected timeout kind, got %v", kind)
	}
}

func TestRunDeterministicIssueOrder(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: passthroughDecoder(),
		Engine: fakeEngine{screens: map[string]string{
			frameKey(0):  "Newz",
			frameKey(10): "Wether",
			frameKey(20): "Blargh",
		}},
	}
	cfg := testConfig()
	cfg.MergeWindowSecs = 1

	var first []string
	for run := 0; run < 3; run++ {
		rpt, err := Run(context.Background(), cfg, Job{Path: "clip.mp4"}, caps, nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		var words []string
		for _, e := range rpt.Errors {
			words = append(words, e.Timestamp+":"+e.Word)
		}
		if run == 0 {
			first = words
			continue
		}
		if len(words) != len(first) {
			t.Fatalf("issue count changed between runs: %v vs %v", first, words)
		}
		for i := range words {
			if words[i] != first[i] {
				t.Errorf("issue order changed between runs: %v vs %v", first, words)
			}
		}
	}
}

func TestRunBatchCountsOutcomes(t *testing.T) {
	caps := Capabilities{
		Prober:  fakeProber{meta: goodMetadata()},
		Decoder: passthroughDecoder(),
		Engine:  fakeEngine{},
	}

	reports, err := RunBatch(context.Background(), testConfig(), []string{"a.mp4", "b.mp4"}, nil, caps, nil)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(reports))
	}
}
