// Package report assembles the final quality report. Field names form a
// stable contract consumed by the HTTP API and the JSON output mode, so
// they never change casually.
package report

import (
	"fmt"
	"time"

	"github.com/reelcheck/reelcheck/internal/technical"
	"github.com/reelcheck/reelcheck/internal/textcheck"
	"github.com/reelcheck/reelcheck/internal/util"
)

// Status values for the overall report and for each stage.
const (
	StatusPass  = "pass"
	StatusFail  = "fail"
	StatusError = "error"
)

// Report is the complete result of one quality check.
type Report struct {
	Status          string            `json:"status"`
	TechnicalStatus string            `json:"technical_status"`
	ContentStatus   string            `json:"content_status"`
	Timestamp       string            `json:"timestamp"`
	Technical       TechnicalMetadata `json:"technical_metadata"`
	Content         ContentAnalysis   `json:"content_analysis"`
	Errors          []IssueEntry      `json:"errors"`
	Recommendations []Recommendation  `json:"recommendations"`
	Summary         Summary           `json:"summary"`
}

// TechnicalMetadata is the probe snapshot attached to the report. Bit
// rate and file size are humanized for display.
type TechnicalMetadata struct {
	Resolution string            `json:"resolution"`
	FrameRate  float64           `json:"frame_rate"`
	Codec      string            `json:"codec"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	FileSize   string            `json:"file_size"`
	Validation ValidationDetails `json:"validation_details"`
}

// ValidationDetails reports each technical rule individually so a single
// failing rule is identifiable.
type ValidationDetails struct {
	Resolution RuleDetail `json:"resolution_check"`
	FrameRate  RuleDetail `json:"frame_rate_check"`
	Codec      RuleDetail `json:"codec_check"`
}

// RuleDetail is the outcome of one technical rule.
type RuleDetail struct {
	Current  string `json:"current"`
	Required string `json:"required"`
	Passed   bool   `json:"passed"`
}

// ContentAnalysis summarizes the text-quality stage.
type ContentAnalysis struct {
	TextDetected   bool     `json:"text_detected"`
	TotalKeyframes int      `json:"total_keyframes_analyzed"`
	FramesWithText int      `json:"frames_with_text"`
	SpellingErrors int      `json:"spelling_errors"`
	GrammarErrors  int      `json:"grammar_errors"`
	Warnings       []string `json:"warnings"`
}

// IssueEntry is one report error. Spelling entries carry word and
// suggestion; grammar and stage errors carry error text instead.
type IssueEntry struct {
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	Word       string `json:"word,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Error      string `json:"error,omitempty"`
	Context    string `json:"context,omitempty"`
}

// Recommendation is a remediation hint derived from the findings.
type Recommendation struct {
	Category       string `json:"category"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}

// Summary carries the headline counts.
type Summary struct {
	TotalErrors     int  `json:"total_errors"`
	TechnicalErrors int  `json:"technical_errors"`
	ContentErrors   int  `json:"content_errors"`
	TechnicalPassed bool `json:"technical_passed"`
	ContentPassed   bool `json:"content_passed"`
}

// Input collects everything the generator needs from the pipeline.
type Input struct {
	Technical *technical.Result
	Issues    []textcheck.Issue

	// TotalKeyframes and FramesWithText describe the sampling pass.
	TotalKeyframes int
	FramesWithText int
	TextDetected   bool

	// ContentErr is set when the content stage failed outright, for
	// example when no OCR engine is installed. Issues are then empty
	// and content status becomes "error".
	ContentErr error
}

// Generate builds the report. The overall status is fail iff either
// stage failed; a content stage error also fails the overall status
// since text quality could not be verified.
func Generate(in Input) *Report {
	r := &Report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	r.TechnicalStatus = StatusFail
	if in.Technical != nil {
		r.Technical = technicalMetadata(in.Technical)
		if in.Technical.Passed {
			r.TechnicalStatus = StatusPass
		}
	}

	switch {
	case in.ContentErr != nil:
		r.ContentStatus = StatusError
		r.Errors = append(r.Errors, IssueEntry{
			Type:      "content",
			Timestamp: util.FormatTimestamp(0),
			Error:     in.ContentErr.Error(),
		})
	case len(in.Issues) > 0:
		r.ContentStatus = StatusFail
	default:
		r.ContentStatus = StatusPass
	}

	spelling, grammar := 0, 0
	for _, issue := range in.Issues {
		entry := IssueEntry{
			Timestamp: util.FormatTimestamp(issue.Seconds),
			Context:   issue.Context,
		}
		switch issue.Kind {
		case textcheck.KindSpelling:
			entry.Type = "spelling"
			entry.Word = issue.Word
			entry.Suggestion = issue.Suggestion
			spelling++
		case textcheck.KindGrammar:
			entry.Type = "grammar"
			entry.Error = issue.Message
			grammar++
		}
		r.Errors = append(r.Errors, entry)
	}

	var warnings []string
	technicalErrors := 0
	if in.Technical != nil {
		warnings = append(warnings, in.Technical.Warnings...)
		technicalErrors = len(in.Technical.Errors)
	}
	if r.TechnicalStatus == StatusFail && technicalErrors == 0 {
		technicalErrors = 1
	}
	if in.ContentErr == nil && in.TotalKeyframes > 0 && !in.TextDetected {
		warnings = append(warnings, "No text detected in video frames")
	}

	r.Content = ContentAnalysis{
		TextDetected:   in.TextDetected,
		TotalKeyframes: in.TotalKeyframes,
		FramesWithText: in.FramesWithText,
		SpellingErrors: spelling,
		GrammarErrors:  grammar,
		Warnings:       warnings,
	}

	contentErrors := len(in.Issues)
	r.Summary = Summary{
		TotalErrors:     technicalErrors + contentErrors,
		TechnicalErrors: technicalErrors,
		ContentErrors:   contentErrors,
		TechnicalPassed: r.TechnicalStatus == StatusPass,
		ContentPassed:   r.ContentStatus == StatusPass,
	}

	if r.TechnicalStatus == StatusPass && r.ContentStatus == StatusPass {
		r.Status = StatusPass
	} else {
		r.Status = StatusFail
	}

	r.Recommendations = recommendations(in, r)
	return r
}

func technicalMetadata(res *technical.Result) TechnicalMetadata {
	md := res.Metadata
	return TechnicalMetadata{
		Resolution: md.Resolution(),
		FrameRate:  md.FrameRate,
		Codec:      md.CodecName,
		Duration:   util.FormatDuration(md.Duration),
		BitRate:    util.FormatBitRate(md.BitRate),
		FileSize:   util.FormatFileSize(md.FileSize),
		Validation: ValidationDetails{
			Resolution: ruleDetail(res.Resolution),
			FrameRate:  ruleDetail(res.FrameRate),
			Codec:      ruleDetail(res.Codec),
		},
	}
}

func ruleDetail(rc technical.RuleCheck) RuleDetail {
	return RuleDetail{
		Current:  rc.Current,
		Required: rc.Required,
		Passed:   rc.Passed,
	}
}

func recommendations(in Input, r *Report) []Recommendation {
	var recs []Recommendation

	if in.Technical != nil {
		if !in.Technical.Resolution.Passed {
			recs = append(recs, Recommendation{
				Category:       "technical",
				Issue:          fmt.Sprintf("Resolution %s below minimum", in.Technical.Resolution.Current),
				Recommendation: fmt.Sprintf("Re-export the video at %s or higher", in.Technical.Resolution.Required),
			})
		}
		if !in.Technical.FrameRate.Passed {
			recs = append(recs, Recommendation{
				Category:       "technical",
				Issue:          fmt.Sprintf("Frame rate %s not in the accepted set", in.Technical.FrameRate.Current),
				Recommendation: "Conform the video to a standard broadcast frame rate",
			})
		}
		if !in.Technical.Codec.Passed {
			recs = append(recs, Recommendation{
				Category:       "technical",
				Issue:          fmt.Sprintf("Codec %s is not accepted", in.Technical.Codec.Current),
				Recommendation: "Re-encode using H.264 or ProRes",
			})
		}
	}

	if r.Content.SpellingErrors > 0 {
		recs = append(recs, Recommendation{
			Category:       "content",
			Issue:          fmt.Sprintf("%d possible spelling error(s) in on-screen text", r.Content.SpellingErrors),
			Recommendation: "Review flagged words; add intentional terms to the vocabulary list",
		})
	}
	if r.Content.GrammarErrors > 0 {
		recs = append(recs, Recommendation{
			Category:       "content",
			Issue:          fmt.Sprintf("%d possible grammar issue(s) in on-screen text", r.Content.GrammarErrors),
			Recommendation: "Review flagged text for missing punctuation or capitalization",
		})
	}
	if in.ContentErr != nil {
		recs = append(recs, Recommendation{
			Category:       "content",
			Issue:          "On-screen text could not be analyzed",
			Recommendation: "Install the OCR engine and re-run the check",
		})
	}
	return recs
}
