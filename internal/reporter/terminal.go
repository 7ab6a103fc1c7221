package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	download *progressbar.ProgressBar
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	magenta  *color.Color
	bold     *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) JobStarted(info JobInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("QUALITY CHECK")
	const w = 12
	r.printLabel(w, "File:", info.Input)
	if info.Preset != "" {
		r.printLabel(w, "Preset:", info.Preset)
	}
	r.printLabel(w, "Workers:", fmt.Sprintf("%d", info.Workers))
	r.printLabel(w, "Timeout:", info.Timeout)
	if info.VocabLen > 0 {
		r.printLabel(w, "Vocabulary:", fmt.Sprintf("%d terms", info.VocabLen))
	}
}

func (r *TerminalReporter) DownloadProgress(downloaded, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.download == nil {
		r.download = progressbar.DefaultBytes(total, "Downloading")
	}
	_ = r.download.Set64(downloaded)
	if total > 0 && downloaded >= total {
		_ = r.download.Finish()
		r.download = nil
	}
}

func (r *TerminalReporter) ProbeComplete(summary ProbeSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("VIDEO")
	const w = 12
	r.printLabel(w, "Resolution:", summary.Resolution)
	r.printLabel(w, "Frame rate:", fmt.Sprintf("%.3f fps", summary.FrameRate))
	r.printLabel(w, "Codec:", summary.Codec)
	r.printLabel(w, "Duration:", summary.Duration)
	r.printLabel(w, "Bit rate:", summary.BitRate)
	r.printLabel(w, "Size:", summary.FileSize)
}

func (r *TerminalReporter) TechnicalEvaluated(summary TechnicalSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("TECHNICAL")

	if summary.Passed {
		fmt.Printf("  %s\n", r.green.Add(color.Bold).Sprint("All checks passed"))
	} else {
		fmt.Printf("  %s\n", r.red.Sprint("Technical check failed"))
	}

	maxLen := 0
	for _, check := range summary.Checks {
		if len(check.Name) > maxLen {
			maxLen = len(check.Name)
		}
	}
	for _, check := range summary.Checks {
		var status string
		if check.Passed {
			status = r.green.Sprint("✓")
		} else {
			status = r.red.Sprint("✗")
		}
		paddedName := fmt.Sprintf("%-*s", maxLen, check.Name)
		fmt.Printf("  - %s: %s (%s, requires %s)\n", paddedName, status, check.Current, check.Required)
	}

	for _, warning := range summary.Warnings {
		fmt.Printf("  %s %s\n", r.yellow.Sprint("!"), warning)
	}
}

func (r *TerminalReporter) SamplingStarted(totalFrames int) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("CONTENT")

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions(
		totalFrames,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Analyzing [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) SampleProgress(snapshot SampleSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}
	_ = r.progress.Set(snapshot.Completed)
	r.progress.Describe(fmt.Sprintf("%d/%d frames, %d with text",
		snapshot.Completed, snapshot.Total, snapshot.WithText))
}

func (r *TerminalReporter) ContentEvaluated(summary ContentSummary) {
	r.finishProgress()

	const w = 15
	detected := "no"
	if summary.TextDetected {
		detected = "yes"
	}
	r.printLabel(w, "Text detected:", detected)
	r.printLabel(w, "Frames:", fmt.Sprintf("%d analyzed, %d with text", summary.FramesAnalyzed, summary.FramesWithText))
	r.printLabel(w, "Spelling:", fmt.Sprintf("%d", summary.SpellingErrors))
	r.printLabel(w, "Grammar:", fmt.Sprintf("%d", summary.GrammarErrors))
}

func (r *TerminalReporter) JobComplete(outcome Outcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")

	var verdict string
	if outcome.Status == "pass" {
		verdict = r.green.Add(color.Bold).Sprint("PASS")
	} else {
		verdict = r.red.Sprint("FAIL")
	}
	fmt.Printf("  %s %s\n", r.bold.Sprint("Status:"), verdict)
	r.printLabel(11, "Technical:", outcome.TechnicalStatus)
	r.printLabel(11, "Content:", outcome.ContentStatus)

	if len(outcome.Issues) > 0 {
		fmt.Println()
		for _, issue := range outcome.Issues {
			switch issue.Type {
			case "spelling":
				fmt.Printf("  %s [%s] '%s' (did you mean %s?)\n",
					r.magenta.Sprint("›"), issue.Timestamp, issue.Word, issue.Suggestion)
			default:
				fmt.Printf("  %s [%s] %s\n",
					r.magenta.Sprint("›"), issue.Timestamp, issue.Message)
			}
		}
	}

	for _, rec := range outcome.Recommendations {
		fmt.Printf("  %s %s\n", r.yellow.Sprint("→"), rec)
	}
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err JobError) {
	r.finishProgress()

	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Checking %d files\n", info.TotalFiles)
	for i, name := range info.FileList {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	fmt.Printf("\nFile %s of %d\n",
		r.bold.Sprint(context.CurrentFile),
		context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d of %d passed", summary.PassedCount, summary.TotalFiles))
	if summary.FailedCount > 0 {
		fmt.Printf("  %s\n", r.red.Sprintf("%d failed", summary.FailedCount))
	}
}

func (r *TerminalReporter) Verbose(message string) {
	fmt.Printf("  %s\n", color.New(color.Faint).Sprint(message))
}
