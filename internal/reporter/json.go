package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events for machine consumers.
type JSONReporter struct {
	writer           io.Writer
	mu               sync.Mutex
	lastProgressTime time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) JobStarted(info JobInfo) {
	r.write(map[string]interface{}{
		"type":       "job_started",
		"input":      info.Input,
		"preset":     info.Preset,
		"workers":    info.Workers,
		"timeout":    info.Timeout,
		"vocabulary": info.VocabLen,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) DownloadProgress(downloaded, total int64) {
	const minInterval = 2 * time.Second

	now := time.Now()
	r.mu.Lock()
	final := total > 0 && downloaded >= total
	shouldEmit := final || r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	if !shouldEmit {
		r.mu.Unlock()
		return
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":       "download_progress",
		"downloaded": downloaded,
		"total":      total,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) ProbeComplete(summary ProbeSummary) {
	r.write(map[string]interface{}{
		"type":       "probe_complete",
		"resolution": summary.Resolution,
		"frame_rate": summary.FrameRate,
		"codec":      summary.Codec,
		"duration":   summary.Duration,
		"bit_rate":   summary.BitRate,
		"file_size":  summary.FileSize,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) TechnicalEvaluated(summary TechnicalSummary) {
	checks := make([]map[string]interface{}, len(summary.Checks))
	for i, check := range summary.Checks {
		checks[i] = map[string]interface{}{
			"check":    check.Name,
			"current":  check.Current,
			"required": check.Required,
			"passed":   check.Passed,
		}
	}

	r.write(map[string]interface{}{
		"type":      "technical_evaluated",
		"passed":    summary.Passed,
		"checks":    checks,
		"warnings":  summary.Warnings,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) SamplingStarted(totalFrames int) {
	r.mu.Lock()
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":         "sampling_started",
		"total_frames": totalFrames,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) SampleProgress(snapshot SampleSnapshot) {
	const minInterval = 2 * time.Second

	now := time.Now()
	r.mu.Lock()
	final := snapshot.Completed >= snapshot.Total
	shouldEmit := final || r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	if !shouldEmit {
		r.mu.Unlock()
		return
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":             "sample_progress",
		"completed":        snapshot.Completed,
		"total":            snapshot.Total,
		"frames_with_text": snapshot.WithText,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) ContentEvaluated(summary ContentSummary) {
	r.write(map[string]interface{}{
		"type":             "content_evaluated",
		"text_detected":    summary.TextDetected,
		"frames_analyzed":  summary.FramesAnalyzed,
		"frames_with_text": summary.FramesWithText,
		"spelling_errors":  summary.SpellingErrors,
		"grammar_errors":   summary.GrammarErrors,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) JobComplete(outcome Outcome) {
	issues := make([]map[string]interface{}, len(outcome.Issues))
	for i, issue := range outcome.Issues {
		entry := map[string]interface{}{
			"issue_type":      issue.Type,
			"issue_timestamp": issue.Timestamp,
		}
		if issue.Word != "" {
			entry["word"] = issue.Word
			entry["suggestion"] = issue.Suggestion
		}
		if issue.Message != "" {
			entry["message"] = issue.Message
		}
		issues[i] = entry
	}

	r.write(map[string]interface{}{
		"type":             "job_complete",
		"input":            outcome.Input,
		"status":           outcome.Status,
		"technical_status": outcome.TechnicalStatus,
		"content_status":   outcome.ContentStatus,
		"total_errors":     outcome.TotalErrors,
		"issues":           issues,
		"recommendations":  outcome.Recommendations,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err JobError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]interface{}{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]interface{}{
		"type":         "batch_complete",
		"total_files":  summary.TotalFiles,
		"passed_count": summary.PassedCount,
		"failed_count": summary.FailedCount,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
