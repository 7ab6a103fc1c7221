package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/reelcheck/reelcheck/internal/ffprobe"
	"github.com/reelcheck/reelcheck/internal/technical"
	"github.com/reelcheck/reelcheck/internal/textcheck"
)

func passingMetadata() *ffprobe.Metadata {
	return &ffprobe.Metadata{
		Width:     1920,
		Height:    1080,
		CodecName: "h264",
		FrameRate: 29.97,
		Duration:  120,
		BitRate:   8_000_000,
		FileSize:  120_000_000,
	}
}

func TestGenerateCleanVideo(t *testing.T) {
	r := Generate(Input{
		Technical:      technical.Evaluate(passingMetadata()),
		TotalKeyframes: 24,
	})

	if r.Status != StatusPass {
		t.Errorf("expected status pass, got %q", r.Status)
	}
	if r.TechnicalStatus != StatusPass || r.ContentStatus != StatusPass {
		t.Errorf("expected both stages pass, got %q/%q", r.TechnicalStatus, r.ContentStatus)
	}
	if len(r.Errors) != 0 {
		t.Errorf("expected no errors, got %+v", r.Errors)
	}
	if !r.Summary.TechnicalPassed || !r.Summary.ContentPassed {
		t.Errorf("summary flags wrong: %+v", r.Summary)
	}
	if r.Summary.TotalErrors != 0 {
		t.Errorf("expected 0 total errors, got %d", r.Summary.TotalErrors)
	}
	if r.Technical.Resolution != "1920x1080" {
		t.Errorf("expected resolution 1920x1080, got %q", r.Technical.Resolution)
	}
	var noted bool
	for _, w := range r.Content.Warnings {
		if w == "No text detected in video frames" {
			noted = true
		}
	}
	if !noted {
		t.Errorf("expected a no-text warning, got %v", r.Content.Warnings)
	}
}

func TestGenerateTechnicalFailure(t *testing.T) {
	meta := passingMetadata()
	meta.Width = 1280
	meta.Height = 720

	r := Generate(Input{Technical: technical.Evaluate(meta)})

	if r.Status != StatusFail {
		t.Errorf("expected status fail, got %q", r.Status)
	}
	if r.TechnicalStatus != StatusFail {
		t.Errorf("expected technical fail, got %q", r.TechnicalStatus)
	}
	if r.ContentStatus != StatusPass {
		t.Errorf("content should still pass, got %q", r.ContentStatus)
	}
	if r.Technical.Resolution != "1280x720" {
		t.Errorf("expected resolution 1280x720, got %q", r.Technical.Resolution)
	}
	if r.Technical.Validation.Resolution.Passed {
		t.Error("resolution check should be marked failed")
	}
	if !r.Technical.Validation.FrameRate.Passed || !r.Technical.Validation.Codec.Passed {
		t.Error("passing rules should remain identifiable as passed")
	}
	if len(r.Recommendations) == 0 {
		t.Error("expected a technical recommendation")
	}
}

func TestGenerateContentIssues(t *testing.T) {
	issues := []textcheck.Issue{
		{Kind: textcheck.KindSpelling, Seconds: 75, Word: "Wether", Suggestion: "weather", Context: "Wether report"},
		{Kind: textcheck.KindGrammar, Seconds: 80, Message: "Sentence fragment: 'weather.'"},
	}

	r := Generate(Input{
		Technical:      technical.Evaluate(passingMetadata()),
		Issues:         issues,
		TotalKeyframes: 10,
		FramesWithText: 4,
		TextDetected:   true,
	})

	if r.Status != StatusFail || r.ContentStatus != StatusFail {
		t.Errorf("expected content failure, got %q/%q", r.Status, r.ContentStatus)
	}
	if len(r.Errors) != 2 {
		t.Fatalf("expected 2 error entries, got %d", len(r.Errors))
	}
	spelling := r.Errors[0]
	if spelling.Type != "spelling" || spelling.Word != "Wether" || spelling.Suggestion != "weather" {
		t.Errorf("unexpected spelling entry: %+v", spelling)
	}
	if spelling.Timestamp != "1:15" {
		t.Errorf("expected timestamp 1:15, got %q", spelling.Timestamp)
	}
	grammar := r.Errors[1]
	if grammar.Type != "grammar" || grammar.Error == "" {
		t.Errorf("unexpected grammar entry: %+v", grammar)
	}
	if r.Content.SpellingErrors != 1 || r.Content.GrammarErrors != 1 {
		t.Errorf("unexpected counts: %+v", r.Content)
	}
	if r.Summary.ContentErrors != 2 || r.Summary.TotalErrors != 2 {
		t.Errorf("unexpected summary: %+v", r.Summary)
	}
}

func TestGenerateContentStageError(t *testing.T) {
	r := Generate(Input{
		Technical:  technical.Evaluate(passingMetadata()),
		ContentErr: errors.New("tesseract not found in PATH"),
	})

	if r.ContentStatus != StatusError {
		t.Errorf("expected content status error, got %q", r.ContentStatus)
	}
	if r.Status != StatusFail {
		t.Errorf("unverified content should fail overall, got %q", r.Status)
	}
	if r.TechnicalStatus != StatusPass {
		t.Errorf("technical results still apply, got %q", r.TechnicalStatus)
	}
	var found bool
	for _, e := range r.Errors {
		if e.Type == "content" && e.Error != "" {
			found = true
			if e.Timestamp != "0:00" {
				t.Errorf("stage error timestamp = %q, want 0:00", e.Timestamp)
			}
		}
	}
	if !found {
		t.Errorf("expected a content stage error entry: %+v", r.Errors)
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	r := Generate(Input{Technical: technical.Evaluate(passingMetadata())})

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{
		"status", "technical_status", "content_status", "timestamp",
		"technical_metadata", "content_analysis", "errors",
		"recommendations", "summary",
	} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("missing top-level field %q", field)
		}
	}

	tech, ok := decoded["technical_metadata"].(map[string]any)
	if !ok {
		t.Fatal("technical_metadata is not an object")
	}
	for _, field := range []string{"resolution", "frame_rate", "codec", "duration", "bit_rate", "file_size", "validation_details"} {
		if _, ok := tech[field]; !ok {
			t.Errorf("missing technical_metadata field %q", field)
		}
	}

	content, ok := decoded["content_analysis"].(map[string]any)
	if !ok {
		t.Fatal("content_analysis is not an object")
	}
	for _, field := range []string{"text_detected", "total_keyframes_analyzed", "frames_with_text", "spelling_errors", "grammar_errors"} {
		if _, ok := content[field]; !ok {
			t.Errorf("missing content_analysis field %q", field)
		}
	}
}
